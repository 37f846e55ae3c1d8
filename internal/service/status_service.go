package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-task-api/internal/domain"
	"project-task-api/internal/dto"
	"project-task-api/internal/repository"
	"project-task-api/internal/response"
)

// StatusService manages a project's workflow statuses
type StatusService interface {
	CreateStatus(ctx context.Context, projectID, userID uuid.UUID, req *dto.CreateStatusRequest) (*dto.StatusResponse, error)
	ListStatuses(ctx context.Context, projectID, userID uuid.UUID) ([]dto.StatusResponse, error)
	DeleteStatus(ctx context.Context, projectID, userID, statusID uuid.UUID) error
}

type statusServiceImpl struct {
	statusRepo repository.StatusRepository
	access     projectAccess
	logger     *zap.Logger
}

// NewStatusService creates a new instance of StatusService
func NewStatusService(statusRepo repository.StatusRepository, memberRepo repository.MemberRepository, logger *zap.Logger) StatusService {
	return &statusServiceImpl{
		statusRepo: statusRepo,
		access:     projectAccess{memberRepo: memberRepo},
		logger:     logger,
	}
}

// CreateStatus adds a status; its order must be free within the project
func (s *statusServiceImpl) CreateStatus(ctx context.Context, projectID, userID uuid.UUID, req *dto.CreateStatusRequest) (*dto.StatusResponse, error) {
	if _, err := s.access.manager(ctx, projectID, userID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, response.NewValidationError("Status name is required", "")
	}
	if req.Order == nil {
		return nil, response.NewValidationError("Status order is required", "")
	}

	exists, err := s.statusRepo.ExistsByOrder(ctx, projectID, *req.Order)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check status order", err.Error())
	}
	if exists {
		return nil, response.NewValidationError("A status with this order already exists", "")
	}

	status := &domain.Status{ProjectID: projectID, Name: name, Order: *req.Order}
	if err := s.statusRepo.Create(ctx, status); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewValidationError("A status with this order already exists", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create status", err.Error())
	}

	resp := toStatusResponse(status)
	return &resp, nil
}

// ListStatuses returns the project's statuses by order
func (s *statusServiceImpl) ListStatuses(ctx context.Context, projectID, userID uuid.UUID) ([]dto.StatusResponse, error) {
	if _, err := s.access.member(ctx, projectID, userID); err != nil {
		return nil, err
	}
	statuses, err := s.statusRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch statuses", err.Error())
	}
	return toStatusResponses(statuses), nil
}

// DeleteStatus removes a status; its tasks are left without one
func (s *statusServiceImpl) DeleteStatus(ctx context.Context, projectID, userID, statusID uuid.UUID) error {
	if _, err := s.access.manager(ctx, projectID, userID); err != nil {
		return err
	}

	status, err := s.statusRepo.FindByID(ctx, statusID)
	if err != nil {
		return internalError(err, "Failed to fetch status", "Status not found")
	}
	if status.ProjectID != projectID {
		return response.NewNotFoundError("Status not found", "")
	}

	if err := s.statusRepo.Delete(ctx, statusID); err != nil {
		return internalError(err, "Failed to delete status", "Status not found")
	}
	s.logger.Info("Status deleted",
		zap.String("project_id", projectID.String()),
		zap.String("status_id", statusID.String()),
	)
	return nil
}
