package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"project-task-api/internal/domain"
	"project-task-api/internal/dto"
	"project-task-api/internal/repository"
	"project-task-api/internal/response"
)

// CommentService defines the interface for comment business logic
type CommentService interface {
	CreateComment(ctx context.Context, taskID, userID uuid.UUID, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	GetCommentsByTaskID(ctx context.Context, taskID, userID uuid.UUID) ([]dto.CommentResponse, error)
}

// commentServiceImpl is the implementation of CommentService
type commentServiceImpl struct {
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	tasks       taskAccess
	logger      *zap.Logger
}

// NewCommentService creates a new instance of CommentService
func NewCommentService(
	commentRepo repository.CommentRepository,
	taskRepo repository.TaskRepository,
	memberRepo repository.MemberRepository,
	userRepo repository.UserRepository,
	logger *zap.Logger,
) CommentService {
	return &commentServiceImpl{
		commentRepo: commentRepo,
		userRepo:    userRepo,
		tasks:       taskAccess{taskRepo: taskRepo, access: projectAccess{memberRepo: memberRepo}},
		logger:      logger,
	}
}

// CreateComment adds a comment to a task. Viewers may not comment.
func (s *commentServiceImpl) CreateComment(ctx context.Context, taskID, userID uuid.UUID, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if _, _, err := s.tasks.load(ctx, taskID, userID, true); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, response.NewValidationError("Comment content is required", "")
	}

	comment := &domain.Comment{
		TaskID:   taskID,
		AuthorID: userID,
		Content:  content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		s.logger.Error("Failed to create comment", zap.String("task_id", taskID.String()), zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create comment", err.Error())
	}

	if author, err := s.userRepo.FindByID(ctx, userID); err == nil {
		comment.Author = author
	}

	resp := toCommentResponse(comment)
	return &resp, nil
}

// GetCommentsByTaskID lists the task's comments, newest first
func (s *commentServiceImpl) GetCommentsByTaskID(ctx context.Context, taskID, userID uuid.UUID) ([]dto.CommentResponse, error) {
	if _, _, err := s.tasks.load(ctx, taskID, userID, false); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.FindByTaskID(ctx, taskID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch comments", err.Error())
	}

	result := make([]dto.CommentResponse, 0, len(comments))
	for _, c := range comments {
		result = append(result, toCommentResponse(c))
	}
	return result, nil
}
