package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"project-task-api/internal/domain"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.Task, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)
	FindAssignedTo(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// taskRepositoryImpl is the GORM implementation of TaskRepository
type taskRepositoryImpl struct {
	db *gorm.DB
}

// NewTaskRepository creates a new instance of TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepositoryImpl{db: db}
}

const taskOrdering = "task_order ASC, created_at DESC"

// Create creates a new task
func (r *taskRepositoryImpl) Create(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Omit("Creator", "Status").Create(task).Error
}

// FindByID finds a task by ID with its status, creator, assignees and labels loaded
func (r *taskRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.WithContext(ctx).
		Preload("Status").
		Preload("Creator").
		Preload("Assignees", func(db *gorm.DB) *gorm.DB { return db.Order("assigned_at ASC") }).
		Preload("Assignees.User").
		Preload("TaskLabels.Label").
		Where("id = ?", id).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindByProjectID lists a project's tasks by order, newest first within an order
func (r *taskRepositoryImpl) FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.Task, error) {
	var tasks []*domain.Task
	if err := r.db.WithContext(ctx).
		Preload("Status").
		Where("project_id = ?", projectID).
		Order(taskOrdering).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByUserID lists tasks the user created or is assigned to, each task once
func (r *taskRepositoryImpl) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	var tasks []*domain.Task
	if err := r.db.WithContext(ctx).
		Preload("Status").
		Where("creator_id = ? OR id IN (?)", userID, r.assignedTaskIDs(userID)).
		Order(taskOrdering).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindAssignedTo lists tasks the user is assigned to
func (r *taskRepositoryImpl) FindAssignedTo(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	var tasks []*domain.Task
	if err := r.db.WithContext(ctx).
		Preload("Status").
		Where("id IN (?)", r.assignedTaskIDs(userID)).
		Order(taskOrdering).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update saves the editable columns of a task
func (r *taskRepositoryImpl) Update(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).
		Model(task).
		Select("Title", "Description", "Order", "Priority", "DueDate", "StatusID", "EstimatedDuration", "ActualDuration").
		Updates(task).Error
}

// Delete removes a task and its children in one transaction
func (r *taskRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteTaskChildren(tx, []uuid.UUID{id}); err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&domain.Task{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Count returns the number of tasks
func (r *taskRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Task{}).Count(&count).Error
	return count, err
}

func (r *taskRepositoryImpl) assignedTaskIDs(userID uuid.UUID) *gorm.DB {
	return r.db.Model(&domain.Assignee{}).Select("task_id").Where("user_id = ?", userID)
}
