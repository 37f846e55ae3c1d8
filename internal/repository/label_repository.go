package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"project-task-api/internal/domain"
)

// LabelRepository defines the interface for label and task-label data access
type LabelRepository interface {
	Create(ctx context.Context, label *domain.Label) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Label, error)
	FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.Label, error)
	ExistsByName(ctx context.Context, projectID uuid.UUID, name string) (bool, error)
	AttachToTask(ctx context.Context, taskLabel *domain.TaskLabel) error
	DetachFromTask(ctx context.Context, taskID, labelID uuid.UUID) error
	FindByTaskID(ctx context.Context, taskID uuid.UUID) ([]*domain.Label, error)
}

// labelRepositoryImpl is the GORM implementation of LabelRepository
type labelRepositoryImpl struct {
	db *gorm.DB
}

// NewLabelRepository creates a new instance of LabelRepository
func NewLabelRepository(db *gorm.DB) LabelRepository {
	return &labelRepositoryImpl{db: db}
}

// Create creates a new label
func (r *labelRepositoryImpl) Create(ctx context.Context, label *domain.Label) error {
	return r.db.WithContext(ctx).Create(label).Error
}

// FindByID finds a label by ID
func (r *labelRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Label, error) {
	var label domain.Label
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&label).Error; err != nil {
		return nil, err
	}
	return &label, nil
}

// FindByProjectID lists a project's labels by name
func (r *labelRepositoryImpl) FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.Label, error) {
	var labels []*domain.Label
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("name ASC").
		Find(&labels).Error; err != nil {
		return nil, err
	}
	return labels, nil
}

// ExistsByName reports whether the project already has a label called name
func (r *labelRepositoryImpl) ExistsByName(ctx context.Context, projectID uuid.UUID, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Label{}).
		Where("project_id = ? AND name = ?", projectID, name).
		Count(&count).Error
	return count > 0, err
}

// AttachToTask links a label to a task
func (r *labelRepositoryImpl) AttachToTask(ctx context.Context, taskLabel *domain.TaskLabel) error {
	return r.db.WithContext(ctx).Omit("Label").Create(taskLabel).Error
}

// DetachFromTask unlinks a label from a task
func (r *labelRepositoryImpl) DetachFromTask(ctx context.Context, taskID, labelID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("task_id = ? AND label_id = ?", taskID, labelID).
		Delete(&domain.TaskLabel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByTaskID lists the labels attached to a task
func (r *labelRepositoryImpl) FindByTaskID(ctx context.Context, taskID uuid.UUID) ([]*domain.Label, error) {
	var labels []*domain.Label
	if err := r.db.WithContext(ctx).
		Joins("JOIN task_labels ON task_labels.label_id = labels.id").
		Where("task_labels.task_id = ?", taskID).
		Order("labels.name ASC").
		Find(&labels).Error; err != nil {
		return nil, err
	}
	return labels, nil
}
