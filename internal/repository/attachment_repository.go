package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"project-task-api/internal/domain"
)

// AttachmentRepository defines the interface for attachment data access
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *domain.Attachment) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error)
	FindByTaskID(ctx context.Context, taskID uuid.UUID) ([]*domain.Attachment, error)
	FindFileKeysByTaskID(ctx context.Context, taskID uuid.UUID) ([]string, error)
	FindFileKeysByProjectID(ctx context.Context, projectID uuid.UUID) ([]string, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// attachmentRepositoryImpl is the GORM implementation of AttachmentRepository
type attachmentRepositoryImpl struct {
	db *gorm.DB
}

// NewAttachmentRepository creates a new instance of AttachmentRepository
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepositoryImpl{db: db}
}

// Create creates a new attachment
func (r *attachmentRepositoryImpl) Create(ctx context.Context, attachment *domain.Attachment) error {
	if err := r.db.WithContext(ctx).Create(attachment).Error; err != nil {
		return err
	}
	return nil
}

// FindByID finds an attachment by its ID
func (r *attachmentRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
	var attachment domain.Attachment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&attachment).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

// FindByTaskID finds all attachments of a task, newest first
func (r *attachmentRepositoryImpl) FindByTaskID(ctx context.Context, taskID uuid.UUID) ([]*domain.Attachment, error) {
	var attachments []*domain.Attachment
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

// FindFileKeysByTaskID returns the storage keys of a task's attachments
func (r *attachmentRepositoryImpl) FindFileKeysByTaskID(ctx context.Context, taskID uuid.UUID) ([]string, error) {
	var keys []string
	if err := r.db.WithContext(ctx).
		Model(&domain.Attachment{}).
		Where("task_id = ?", taskID).
		Pluck("file_key", &keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

// FindFileKeysByProjectID returns the storage keys of every attachment in a project
func (r *attachmentRepositoryImpl) FindFileKeysByProjectID(ctx context.Context, projectID uuid.UUID) ([]string, error) {
	var keys []string
	if err := r.db.WithContext(ctx).
		Model(&domain.Attachment{}).
		Where("task_id IN (?)", r.db.Model(&domain.Task{}).Select("id").Where("project_id = ?", projectID)).
		Pluck("file_key", &keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

// Delete deletes an attachment by ID
func (r *attachmentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Attachment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
