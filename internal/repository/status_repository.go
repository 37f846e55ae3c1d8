package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"project-task-api/internal/domain"
)

// StatusRepository defines the interface for workflow status data access
type StatusRepository interface {
	Create(ctx context.Context, status *domain.Status) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Status, error)
	FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.Status, error)
	ExistsByOrder(ctx context.Context, projectID uuid.UUID, order int) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// statusRepositoryImpl is the GORM implementation of StatusRepository
type statusRepositoryImpl struct {
	db *gorm.DB
}

// NewStatusRepository creates a new instance of StatusRepository
func NewStatusRepository(db *gorm.DB) StatusRepository {
	return &statusRepositoryImpl{db: db}
}

// Create creates a new status
func (r *statusRepositoryImpl) Create(ctx context.Context, status *domain.Status) error {
	return r.db.WithContext(ctx).Create(status).Error
}

// FindByID finds a status by ID
func (r *statusRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Status, error) {
	var status domain.Status
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&status).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

// FindByProjectID lists a project's statuses in column order
func (r *statusRepositoryImpl) FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.Status, error) {
	var statuses []*domain.Status
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("display_order ASC").
		Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

// ExistsByOrder reports whether the project already has a status at order
func (r *statusRepositoryImpl) ExistsByOrder(ctx context.Context, projectID uuid.UUID, order int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Status{}).
		Where("project_id = ? AND display_order = ?", projectID, order).
		Count(&count).Error
	return count > 0, err
}

// Delete removes a status and clears it from the tasks that used it
func (r *statusRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Task{}).
			Where("status_id = ?", id).
			Update("status_id", nil).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&domain.Status{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
