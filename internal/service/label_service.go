package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"project-task-api/internal/domain"
	"project-task-api/internal/dto"
	"project-task-api/internal/repository"
	"project-task-api/internal/response"
)

// LabelService manages a project's labels
type LabelService interface {
	CreateLabel(ctx context.Context, projectID, userID uuid.UUID, req *dto.CreateLabelRequest) (*dto.LabelResponse, error)
	ListLabels(ctx context.Context, projectID, userID uuid.UUID) ([]dto.LabelResponse, error)
}

type labelServiceImpl struct {
	labelRepo repository.LabelRepository
	access    projectAccess
}

// NewLabelService creates a new instance of LabelService
func NewLabelService(labelRepo repository.LabelRepository, memberRepo repository.MemberRepository) LabelService {
	return &labelServiceImpl{
		labelRepo: labelRepo,
		access:    projectAccess{memberRepo: memberRepo},
	}
}

// CreateLabel adds a label whose name is unique within the project
func (s *labelServiceImpl) CreateLabel(ctx context.Context, projectID, userID uuid.UUID, req *dto.CreateLabelRequest) (*dto.LabelResponse, error) {
	if _, err := s.access.manager(ctx, projectID, userID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, response.NewValidationError("Label name is required", "")
	}
	color := strings.TrimSpace(req.Color)
	if color == "" {
		color = domain.DefaultLabelColor
	}
	if !domain.IsValidLabelColor(color) {
		return nil, response.NewValidationError("Invalid label color", "use #RRGGBB")
	}

	exists, err := s.labelRepo.ExistsByName(ctx, projectID, name)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check label name", err.Error())
	}
	if exists {
		return nil, response.NewConflictError("A label with this name already exists", "")
	}

	label := &domain.Label{ProjectID: projectID, Name: name, Color: color}
	if err := s.labelRepo.Create(ctx, label); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewConflictError("A label with this name already exists", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create label", err.Error())
	}

	resp := toLabelResponse(label)
	return &resp, nil
}

// ListLabels returns the project's labels
func (s *labelServiceImpl) ListLabels(ctx context.Context, projectID, userID uuid.UUID) ([]dto.LabelResponse, error) {
	if _, err := s.access.member(ctx, projectID, userID); err != nil {
		return nil, err
	}
	labels, err := s.labelRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch labels", err.Error())
	}
	return toLabelResponses(labels), nil
}
