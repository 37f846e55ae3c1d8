package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"project-task-api/internal/client"
	"project-task-api/internal/domain"
	"project-task-api/internal/dto"
	"project-task-api/internal/repository"
	"project-task-api/internal/response"
)

// ProjectService defines the interface for project business logic
type ProjectService interface {
	ListProjects(ctx context.Context, userID uuid.UUID) ([]dto.ProjectResponse, error)
	GetProjectDetail(ctx context.Context, projectID, userID uuid.UUID) (*dto.ProjectDetailResponse, error)
	GetEditForm(ctx context.Context, projectID, userID uuid.UUID) (*dto.ProjectEditFormResponse, error)
	UpdateProject(ctx context.Context, projectID, userID uuid.UUID, req *dto.UpdateProjectRequest) (*dto.ProjectUpdateResponse, error)
	DeleteProject(ctx context.Context, projectID, userID uuid.UUID) error
	GetDashboard(ctx context.Context, userID uuid.UUID) (*dto.DashboardResponse, error)
}

// projectServiceImpl is the implementation of ProjectService
type projectServiceImpl struct {
	projectRepo    repository.ProjectRepository
	memberRepo     repository.MemberRepository
	statusRepo     repository.StatusRepository
	labelRepo      repository.LabelRepository
	taskRepo       repository.TaskRepository
	attachmentRepo repository.AttachmentRepository
	membership     MembershipService
	s3Client       client.S3ClientInterface
	access         projectAccess
	logger         *zap.Logger
}

// NewProjectService creates a new instance of ProjectService.
// s3Client may be nil when object storage is not configured.
func NewProjectService(
	projectRepo repository.ProjectRepository,
	memberRepo repository.MemberRepository,
	statusRepo repository.StatusRepository,
	labelRepo repository.LabelRepository,
	taskRepo repository.TaskRepository,
	attachmentRepo repository.AttachmentRepository,
	membership MembershipService,
	s3Client client.S3ClientInterface,
	logger *zap.Logger,
) ProjectService {
	return &projectServiceImpl{
		projectRepo:    projectRepo,
		memberRepo:     memberRepo,
		statusRepo:     statusRepo,
		labelRepo:      labelRepo,
		taskRepo:       taskRepo,
		attachmentRepo: attachmentRepo,
		membership:     membership,
		s3Client:       s3Client,
		access:         projectAccess{memberRepo: memberRepo},
		logger:         logger,
	}
}

// ListProjects returns every project the user owns or belongs to, newest first
func (s *projectServiceImpl) ListProjects(ctx context.Context, userID uuid.UUID) ([]dto.ProjectResponse, error) {
	projects, err := s.projectRepo.FindByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to fetch projects", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch projects", err.Error())
	}
	return toProjectResponses(projects), nil
}

// GetProjectDetail returns the project with its members, statuses, labels and tasks
func (s *projectServiceImpl) GetProjectDetail(ctx context.Context, projectID, userID uuid.UUID) (*dto.ProjectDetailResponse, error) {
	me, err := s.access.member(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, internalError(err, "Failed to fetch project", "Project not found")
	}
	members, err := s.memberRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch members", err.Error())
	}
	statuses, err := s.statusRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch statuses", err.Error())
	}
	labels, err := s.labelRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch labels", err.Error())
	}
	tasks, err := s.taskRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch tasks", err.Error())
	}

	return &dto.ProjectDetailResponse{
		Project:  toProjectResponse(project),
		MyRole:   string(me.Role),
		CanEdit:  me.Role == domain.MemberRoleOwner,
		Members:  toMemberResponses(members),
		Statuses: toStatusResponses(statuses),
		Labels:   toLabelResponses(labels),
		Tasks:    toTaskResponses(tasks),
	}, nil
}

// GetEditForm returns the current project values and the ownership transfer choices
func (s *projectServiceImpl) GetEditForm(ctx context.Context, projectID, userID uuid.UUID) (*dto.ProjectEditFormResponse, error) {
	choices, err := s.membership.OwnershipTransferChoices(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, internalError(err, "Failed to fetch project", "Project not found")
	}
	return &dto.ProjectEditFormResponse{
		Project:         toProjectResponse(project),
		TransferChoices: choices,
	}, nil
}

// UpdateProject changes name and description and optionally hands ownership to req.NewOwner.
// Only the owner may edit. The edit and the transfer commit together, so a rejected
// or failed transfer leaves the project unchanged.
func (s *projectServiceImpl) UpdateProject(ctx context.Context, projectID, userID uuid.UUID, req *dto.UpdateProjectRequest) (*dto.ProjectUpdateResponse, error) {
	if _, err := s.access.owner(ctx, projectID, userID, "Only owner can edit this project"); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, internalError(err, "Failed to fetch project", "Project not found")
	}

	if req.Name != nil {
		name, err := validateProjectName(*req.Name)
		if err != nil {
			return nil, err
		}
		project.Name = name
	}
	if req.Description != nil {
		project.Description = strings.TrimSpace(*req.Description)
	}

	var newOwnerID uuid.UUID
	if raw := strings.TrimSpace(req.NewOwner); raw != "" {
		newOwnerID, err = uuid.Parse(raw)
		if err != nil {
			return nil, response.NewNotFoundError("Project member does not exist", "")
		}
		candidate, err := s.memberRepo.FindByID(ctx, newOwnerID)
		if err != nil {
			return nil, internalError(err, "Failed to load member", "Project member does not exist")
		}
		if candidate.ProjectID != projectID {
			return nil, response.NewNotFoundError("Project member does not exist", "")
		}
	}

	var notices []dto.Notice
	if newOwnerID != uuid.Nil {
		result, err := s.membership.UpdateAndTransferOwnership(ctx, project, userID, newOwnerID)
		if err != nil {
			return nil, err
		}
		notices = append(notices, TransferNotice(result))
	} else if err := s.projectRepo.Update(ctx, project); err != nil {
		s.logger.Error("Failed to update project", zap.String("project_id", projectID.String()), zap.Error(err))
		return nil, internalError(err, "Failed to update project", "Project not found")
	}
	notices = append(notices, dto.Notice{Level: dto.NoticeSuccess, Text: "Project updated"})

	updated, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, internalError(err, "Failed to fetch project", "Project not found")
	}

	s.logger.Info("Project updated", zap.String("project_id", projectID.String()))
	return &dto.ProjectUpdateResponse{
		Project: toProjectResponse(updated),
		Notices: notices,
	}, nil
}

// TransferNotice renders the user-facing message for a transfer outcome
func TransferNotice(result *TransferResult) dto.Notice {
	if result.AlreadyOwner {
		return dto.Notice{Level: dto.NoticeWarning, Text: "User is already the owner"}
	}
	return dto.Notice{
		Level: dto.NoticeSuccess,
		Text:  fmt.Sprintf("Ownership is given to %s", result.Owner.Username),
	}
}

// DeleteProject removes the project and everything it owns. Owner only.
func (s *projectServiceImpl) DeleteProject(ctx context.Context, projectID, userID uuid.UUID) error {
	if _, err := s.access.owner(ctx, projectID, userID, "Only owner can delete this project"); err != nil {
		return err
	}

	keys, err := s.attachmentRepo.FindFileKeysByProjectID(ctx, projectID)
	if err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to fetch attachments", err.Error())
	}

	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		s.logger.Error("Failed to delete project", zap.String("project_id", projectID.String()), zap.Error(err))
		return internalError(err, "Failed to delete project", "Project not found")
	}

	deleteObjects(ctx, s.s3Client, s.logger, keys)
	s.logger.Info("Project deleted",
		zap.String("project_id", projectID.String()),
		zap.Int("attachments", len(keys)),
	)
	return nil
}

// GetDashboard returns the user's projects and the tasks assigned to them
func (s *projectServiceImpl) GetDashboard(ctx context.Context, userID uuid.UUID) (*dto.DashboardResponse, error) {
	projects, err := s.projectRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch projects", err.Error())
	}
	tasks, err := s.taskRepo.FindAssignedTo(ctx, userID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch tasks", err.Error())
	}
	return &dto.DashboardResponse{
		Projects:      toProjectResponses(projects),
		AssignedTasks: toTaskResponses(tasks),
	}, nil
}

// deleteObjects removes stored files after their rows are gone; failures are only logged
func deleteObjects(ctx context.Context, s3Client client.S3ClientInterface, logger *zap.Logger, keys []string) {
	if s3Client == nil {
		return
	}
	for _, key := range keys {
		if err := s3Client.DeleteFile(ctx, key); err != nil {
			logger.Warn("Failed to delete stored file", zap.String("file_key", key), zap.Error(err))
		}
	}
}
