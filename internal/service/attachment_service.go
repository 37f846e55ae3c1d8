package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"project-task-api/internal/client"
	"project-task-api/internal/domain"
	"project-task-api/internal/dto"
	"project-task-api/internal/repository"
	"project-task-api/internal/response"
)

// MaxFileSize defines the maximum allowed file size for uploads (50MB).
const MaxFileSize = 50 * 1024 * 1024

// Attachment-specific error codes
const (
	ErrCodeFileTooLarge    = "FILE_TOO_LARGE"
	ErrCodeInvalidFileType = "INVALID_FILE_TYPE"
)

var (
	allowedContentTypes = map[string]bool{
		"image/jpeg":    true,
		"image/jpg":     true,
		"image/png":     true,
		"image/gif":     true,
		"image/webp":    true,
		"image/svg+xml": true,
		"image/heic":    true,

		"application/pdf": true,
		"text/plain":      true,
		"text/markdown":   true,
		"text/csv":        true,

		"application/msword":            true,
		"application/vnd.ms-excel":      true,
		"application/vnd.ms-powerpoint": true,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   true,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         true,
		"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,

		"application/zip":              true,
		"application/x-zip-compressed": true,
		"application/json":             true,
	}

	allowedExtensions = map[string]bool{
		".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".svg": true, ".heic": true,
		".pdf": true, ".txt": true, ".md": true, ".csv": true,
		".doc": true, ".docx": true, ".xls": true, ".xlsx": true, ".ppt": true, ".pptx": true,
		".zip": true, ".json": true,
	}
)

// AttachmentService handles task attachments stored in object storage
type AttachmentService interface {
	GeneratePresignedURL(ctx context.Context, taskID, userID uuid.UUID, req *dto.PresignedURLRequest) (*dto.PresignedURLResponse, error)
	CreateAttachment(ctx context.Context, taskID, userID uuid.UUID, req *dto.CreateAttachmentRequest) (*dto.AttachmentResponse, error)
	ListAttachments(ctx context.Context, taskID, userID uuid.UUID) ([]dto.AttachmentResponse, error)
	DeleteAttachment(ctx context.Context, taskID, userID, attachmentID uuid.UUID) error
}

type attachmentServiceImpl struct {
	attachmentRepo repository.AttachmentRepository
	tasks          taskAccess
	s3Client       client.S3ClientInterface
	logger         *zap.Logger
}

// NewAttachmentService creates a new instance of AttachmentService.
// With a nil s3Client every operation that needs storage reports it as unavailable.
func NewAttachmentService(
	attachmentRepo repository.AttachmentRepository,
	taskRepo repository.TaskRepository,
	memberRepo repository.MemberRepository,
	s3Client client.S3ClientInterface,
	logger *zap.Logger,
) AttachmentService {
	return &attachmentServiceImpl{
		attachmentRepo: attachmentRepo,
		tasks:          taskAccess{taskRepo: taskRepo, access: projectAccess{memberRepo: memberRepo}},
		s3Client:       s3Client,
		logger:         logger,
	}
}

// GeneratePresignedURL validates the file and returns a short-lived upload URL for it
func (s *attachmentServiceImpl) GeneratePresignedURL(ctx context.Context, taskID, userID uuid.UUID, req *dto.PresignedURLRequest) (*dto.PresignedURLResponse, error) {
	if err := s.storageAvailable(); err != nil {
		return nil, err
	}
	if _, _, err := s.tasks.load(ctx, taskID, userID, true); err != nil {
		return nil, err
	}
	if err := validateFile(req.FileName, req.ContentType, req.FileSize); err != nil {
		return nil, err
	}

	uploadURL, fileKey, err := s.s3Client.GeneratePresignedURL(ctx, taskID, req.FileName, req.ContentType)
	if err != nil {
		s.logger.Error("Failed to generate presigned URL", zap.String("task_id", taskID.String()), zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to generate presigned URL", err.Error())
	}

	return &dto.PresignedURLResponse{
		UploadURL: uploadURL,
		FileKey:   fileKey,
		ExpiresIn: int(client.PresignExpiry.Seconds()),
	}, nil
}

// CreateAttachment registers an uploaded object. The key must have been issued for this task.
func (s *attachmentServiceImpl) CreateAttachment(ctx context.Context, taskID, userID uuid.UUID, req *dto.CreateAttachmentRequest) (*dto.AttachmentResponse, error) {
	if err := s.storageAvailable(); err != nil {
		return nil, err
	}
	if _, _, err := s.tasks.load(ctx, taskID, userID, true); err != nil {
		return nil, err
	}
	if err := validateFile(req.FileName, req.ContentType, req.FileSize); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(req.FileKey, fmt.Sprintf("tasks/%s/", taskID)) {
		return nil, response.NewValidationError("File key does not belong to this task", "")
	}

	attachment := &domain.Attachment{
		TaskID:      taskID,
		Name:        req.FileName,
		FileKey:     req.FileKey,
		ContentType: req.ContentType,
		FileSize:    req.FileSize,
		UploadedBy:  userID,
	}
	if err := s.attachmentRepo.Create(ctx, attachment); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create attachment record", err.Error())
	}

	resp := s.toAttachmentResponse(attachment)
	return &resp, nil
}

// ListAttachments lists the task's attachments with their public URLs
func (s *attachmentServiceImpl) ListAttachments(ctx context.Context, taskID, userID uuid.UUID) ([]dto.AttachmentResponse, error) {
	if _, _, err := s.tasks.load(ctx, taskID, userID, false); err != nil {
		return nil, err
	}
	attachments, err := s.attachmentRepo.FindByTaskID(ctx, taskID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch attachments", err.Error())
	}
	result := make([]dto.AttachmentResponse, 0, len(attachments))
	for _, a := range attachments {
		result = append(result, s.toAttachmentResponse(a))
	}
	return result, nil
}

// DeleteAttachment removes the record and then the stored object.
// The uploader may delete their own file; owners and admins may delete any.
func (s *attachmentServiceImpl) DeleteAttachment(ctx context.Context, taskID, userID, attachmentID uuid.UUID) error {
	_, member, err := s.tasks.load(ctx, taskID, userID, false)
	if err != nil {
		return err
	}

	attachment, err := s.attachmentRepo.FindByID(ctx, attachmentID)
	if err != nil {
		return internalError(err, "Failed to fetch attachment", "Attachment not found")
	}
	if attachment.TaskID != taskID {
		return response.NewNotFoundError("Attachment not found", "")
	}
	if attachment.UploadedBy != userID && !member.Role.CanManageMembers() {
		return response.NewForbiddenError("You do not have permission to delete this attachment", "")
	}

	if err := s.attachmentRepo.Delete(ctx, attachmentID); err != nil {
		return internalError(err, "Failed to delete attachment", "Attachment not found")
	}
	deleteObjects(ctx, s.s3Client, s.logger, []string{attachment.FileKey})
	return nil
}

func (s *attachmentServiceImpl) storageAvailable() error {
	if s.s3Client == nil {
		return response.NewAppError(response.ErrCodeInternal, "File storage is not configured", "")
	}
	return nil
}

func (s *attachmentServiceImpl) toAttachmentResponse(a *domain.Attachment) dto.AttachmentResponse {
	resp := dto.AttachmentResponse{
		AttachmentID: a.ID,
		TaskID:       a.TaskID,
		FileName:     a.Name,
		ContentType:  a.ContentType,
		FileSize:     a.FileSize,
		UploadedBy:   a.UploadedBy,
		CreatedAt:    a.CreatedAt,
	}
	if s.s3Client != nil {
		resp.FileURL = s.s3Client.GetFileURL(a.FileKey)
	}
	return resp
}

// validateFile checks size, extension and content type against the allow lists
func validateFile(fileName, contentType string, size int64) error {
	if size <= 0 {
		return response.NewValidationError("File size must be greater than 0", "")
	}
	if size > MaxFileSize {
		return response.NewAppError(ErrCodeFileTooLarge, "File size exceeds 50MB limit", "")
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" || !allowedExtensions[ext] {
		return response.NewAppError(ErrCodeInvalidFileType, "File extension is not allowed", ext)
	}
	if !allowedContentTypes[strings.ToLower(contentType)] {
		return response.NewAppError(ErrCodeInvalidFileType, "Content type is not allowed", contentType)
	}
	return nil
}
