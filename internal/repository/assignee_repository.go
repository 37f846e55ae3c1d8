package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"project-task-api/internal/domain"
)

// AssigneeRepository defines the interface for task assignment data access
type AssigneeRepository interface {
	Create(ctx context.Context, assignee *domain.Assignee) error
	FindByTaskAndUser(ctx context.Context, taskID, userID uuid.UUID) (*domain.Assignee, error)
	FindByTaskID(ctx context.Context, taskID uuid.UUID) ([]*domain.Assignee, error)
	Delete(ctx context.Context, taskID, userID uuid.UUID) error
}

// assigneeRepositoryImpl is the GORM implementation of AssigneeRepository
type assigneeRepositoryImpl struct {
	db *gorm.DB
}

// NewAssigneeRepository creates a new instance of AssigneeRepository
func NewAssigneeRepository(db *gorm.DB) AssigneeRepository {
	return &assigneeRepositoryImpl{db: db}
}

// Create assigns a user to a task
func (r *assigneeRepositoryImpl) Create(ctx context.Context, assignee *domain.Assignee) error {
	return r.db.WithContext(ctx).Omit("User").Create(assignee).Error
}

// FindByTaskAndUser finds a user's assignment on a task
func (r *assigneeRepositoryImpl) FindByTaskAndUser(ctx context.Context, taskID, userID uuid.UUID) (*domain.Assignee, error) {
	var assignee domain.Assignee
	if err := r.db.WithContext(ctx).
		Where("task_id = ? AND user_id = ?", taskID, userID).
		First(&assignee).Error; err != nil {
		return nil, err
	}
	return &assignee, nil
}

// FindByTaskID lists a task's assignees in assignment order
func (r *assigneeRepositoryImpl) FindByTaskID(ctx context.Context, taskID uuid.UUID) ([]*domain.Assignee, error) {
	var assignees []*domain.Assignee
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("task_id = ?", taskID).
		Order("assigned_at ASC").
		Find(&assignees).Error; err != nil {
		return nil, err
	}
	return assignees, nil
}

// Delete removes a user's assignment from a task
func (r *assigneeRepositoryImpl) Delete(ctx context.Context, taskID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("task_id = ? AND user_id = ?", taskID, userID).
		Delete(&domain.Assignee{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
