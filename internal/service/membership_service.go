package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-task-api/internal/client"
	"project-task-api/internal/domain"
	"project-task-api/internal/dto"
	"project-task-api/internal/metrics"
	"project-task-api/internal/repository"
	"project-task-api/internal/response"
)

// DoNotChangeLabel is the label of the empty ownership transfer choice
const DoNotChangeLabel = "Do not change"

// TransferResult is the outcome of a transfer that did not fail.
// AlreadyOwner marks a no-op because the target already held the owner role.
type TransferResult struct {
	Owner        dto.MemberResponse
	AlreadyOwner bool
}

// MembershipService keeps exactly one owner per project and moves ownership between members
type MembershipService interface {
	CreateProject(ctx context.Context, requesterID uuid.UUID, name, description string) (*dto.ProjectResponse, error)
	AddMember(ctx context.Context, projectID, requesterID, userID uuid.UUID, role domain.MemberRole) (*dto.MemberResponse, error)
	TransferOwnership(ctx context.Context, projectID, requesterID, newOwnerMemberID uuid.UUID) (*TransferResult, error)
	UpdateAndTransferOwnership(ctx context.Context, project *domain.Project, requesterID, newOwnerMemberID uuid.UUID) (*TransferResult, error)
	ListMembers(ctx context.Context, projectID, requesterID uuid.UUID) ([]dto.MemberResponse, error)
	ListMembersExcludingOwner(ctx context.Context, projectID, requesterID uuid.UUID) ([]dto.MemberResponse, error)
	OwnershipTransferChoices(ctx context.Context, projectID, requesterID uuid.UUID) ([]dto.ChoiceResponse, error)
	UpdateMemberRole(ctx context.Context, projectID, requesterID, memberID uuid.UUID, role domain.MemberRole) (*dto.MemberResponse, error)
	RemoveMember(ctx context.Context, projectID, requesterID, memberID uuid.UUID) error
}

type membershipServiceImpl struct {
	projectRepo  repository.ProjectRepository
	memberRepo   repository.MemberRepository
	userRepo     repository.UserRepository
	access       projectAccess
	notification client.NotificationClient
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// NewMembershipService creates a new instance of MembershipService
func NewMembershipService(
	projectRepo repository.ProjectRepository,
	memberRepo repository.MemberRepository,
	userRepo repository.UserRepository,
	notification client.NotificationClient,
	m *metrics.Metrics,
	logger *zap.Logger,
) MembershipService {
	if notification == nil {
		notification = client.NewNoOpNotificationClient()
	}
	return &membershipServiceImpl{
		projectRepo:  projectRepo,
		memberRepo:   memberRepo,
		userRepo:     userRepo,
		access:       projectAccess{memberRepo: memberRepo},
		notification: notification,
		metrics:      m,
		logger:       logger,
	}
}

// validateProjectName trims name and checks its length in characters
func validateProjectName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < domain.ProjectNameMinLength {
		return "", response.NewValidationError("Projects name must be at least 2 characters long", "")
	}
	if n > domain.ProjectNameMaxLength {
		return "", response.NewValidationError(
			fmt.Sprintf("Project name must be at most %d characters long", domain.ProjectNameMaxLength), "")
	}
	return name, nil
}

// CreateProject creates a project owned by the requester, together with the owner-role member
func (s *membershipServiceImpl) CreateProject(ctx context.Context, requesterID uuid.UUID, name, description string) (*dto.ProjectResponse, error) {
	name, err := validateProjectName(name)
	if err != nil {
		return nil, err
	}

	owner, err := s.userRepo.FindByID(ctx, requesterID)
	if err != nil {
		return nil, internalError(err, "Failed to load user", "User not found")
	}

	project := &domain.Project{
		OwnerID:     requesterID,
		Name:        name,
		Description: strings.TrimSpace(description),
	}
	if _, err := s.projectRepo.CreateWithOwner(ctx, project); err != nil {
		s.logger.Error("Failed to create project", zap.String("owner_id", requesterID.String()), zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create project", err.Error())
	}
	project.Owner = owner

	s.metrics.IncrementProjectCreated()
	s.logger.Info("Project created",
		zap.String("project_id", project.ID.String()),
		zap.String("owner_id", requesterID.String()),
	)

	resp := toProjectResponse(project)
	return &resp, nil
}

// AddMember adds userID to the project with a non-owner role
func (s *membershipServiceImpl) AddMember(ctx context.Context, projectID, requesterID, userID uuid.UUID, role domain.MemberRole) (*dto.MemberResponse, error) {
	if _, err := s.access.manager(ctx, projectID, requesterID); err != nil {
		return nil, err
	}
	if role == "" {
		role = domain.MemberRoleMember
	}
	if !role.IsValid() {
		return nil, response.NewValidationError("Invalid member role", string(role))
	}
	if role == domain.MemberRoleOwner {
		return nil, response.NewValidationError("Ownership can only be given by transfer", "")
	}

	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, internalError(err, "Failed to load project", "Project not found")
	}
	if project.OwnerID == userID {
		return nil, response.NewConflictError("Project owner is automatically a member and cannot be added", "")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, internalError(err, "Failed to load user", "User not found")
	}

	if _, err := s.memberRepo.FindByProjectAndUser(ctx, projectID, userID); err == nil {
		return nil, response.NewConflictError("User is already a member of this project", "")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check project membership", err.Error())
	}

	member := &domain.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewConflictError("User is already a member of this project", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to add member", err.Error())
	}
	member.User = user

	s.metrics.IncrementMemberAdded()
	s.logger.Info("Member added",
		zap.String("project_id", projectID.String()),
		zap.String("user_id", userID.String()),
		zap.String("role", string(role)),
	)

	_ = s.notification.SendNotification(ctx, client.NotificationEvent{
		Type:         client.NotificationMemberAdded,
		ActorID:      requesterID,
		TargetUserID: userID,
		ProjectID:    projectID,
		ResourceType: "project",
		ResourceID:   projectID,
		ResourceName: project.Name,
		Metadata:     map[string]interface{}{"role": string(role)},
	})

	resp := toMemberResponse(member)
	return &resp, nil
}

// TransferOwnership gives the owner role to newOwnerMemberID and demotes the current owner to admin.
// Both role changes and the project's owner reference commit together or not at all.
func (s *membershipServiceImpl) TransferOwnership(ctx context.Context, projectID, requesterID, newOwnerMemberID uuid.UUID) (*TransferResult, error) {
	return s.transfer(ctx, projectID, requesterID, newOwnerMemberID, func() (*domain.ProjectMember, error) {
		return s.projectRepo.TransferOwnership(ctx, projectID, requesterID, newOwnerMemberID)
	})
}

// UpdateAndTransferOwnership saves project's name and description in the same transaction as the
// transfer, so a failed transfer leaves the project unchanged.
func (s *membershipServiceImpl) UpdateAndTransferOwnership(ctx context.Context, project *domain.Project, requesterID, newOwnerMemberID uuid.UUID) (*TransferResult, error) {
	return s.transfer(ctx, project.ID, requesterID, newOwnerMemberID, func() (*domain.ProjectMember, error) {
		return s.projectRepo.UpdateWithTransfer(ctx, project, requesterID, newOwnerMemberID)
	})
}

func (s *membershipServiceImpl) transfer(ctx context.Context, projectID, requesterID, newOwnerMemberID uuid.UUID, run func() (*domain.ProjectMember, error)) (*TransferResult, error) {
	if _, err := s.access.member(ctx, projectID, requesterID); err != nil {
		return nil, err
	}

	target, err := run()
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrAlreadyOwner):
		s.metrics.RecordOwnershipTransfer(metrics.TransferResultAlreadyOwner)
		owner, findErr := s.memberRepo.FindByID(ctx, target.ID)
		if findErr != nil {
			owner = target
		}
		return &TransferResult{Owner: toMemberResponse(owner), AlreadyOwner: true}, nil
	case errors.Is(err, repository.ErrNotProjectOwner):
		return nil, response.NewForbiddenError("Only owner can transfer ownership", "")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, response.NewNotFoundError("Project member does not exist", "")
	default:
		s.metrics.RecordOwnershipTransfer(metrics.TransferResultFailed)
		s.logger.Error("Ownership transfer rolled back",
			zap.String("project_id", projectID.String()),
			zap.String("member_id", newOwnerMemberID.String()),
			zap.Error(err),
		)
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to transfer ownership", err.Error())
	}

	s.metrics.RecordOwnershipTransfer(metrics.TransferResultCompleted)
	s.logger.Info("Ownership transferred",
		zap.String("project_id", projectID.String()),
		zap.String("previous_owner_id", requesterID.String()),
		zap.String("new_owner_id", target.UserID.String()),
	)

	newOwner, err := s.memberRepo.FindByID(ctx, target.ID)
	if err != nil {
		newOwner = target
	}

	_ = s.notification.SendBulkNotifications(ctx, []client.NotificationEvent{
		{
			Type:         client.NotificationOwnershipTransferred,
			ActorID:      requesterID,
			TargetUserID: newOwner.UserID,
			ProjectID:    projectID,
			ResourceType: "project",
			ResourceID:   projectID,
			Metadata:     map[string]interface{}{"role": string(domain.MemberRoleOwner)},
		},
		{
			Type:         client.NotificationOwnershipTransferred,
			ActorID:      requesterID,
			TargetUserID: requesterID,
			ProjectID:    projectID,
			ResourceType: "project",
			ResourceID:   projectID,
			Metadata:     map[string]interface{}{"role": string(domain.MemberRoleAdmin)},
		},
	})

	return &TransferResult{Owner: toMemberResponse(newOwner)}, nil
}

// ListMembers lists every member, owner included, in join order
func (s *membershipServiceImpl) ListMembers(ctx context.Context, projectID, requesterID uuid.UUID) ([]dto.MemberResponse, error) {
	if _, err := s.access.member(ctx, projectID, requesterID); err != nil {
		return nil, err
	}
	members, err := s.memberRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch members", err.Error())
	}
	return toMemberResponses(members), nil
}

// ListMembersExcludingOwner lists the non-owner members in join order
func (s *membershipServiceImpl) ListMembersExcludingOwner(ctx context.Context, projectID, requesterID uuid.UUID) ([]dto.MemberResponse, error) {
	if _, err := s.access.member(ctx, projectID, requesterID); err != nil {
		return nil, err
	}
	members, err := s.memberRepo.FindNonOwnersByProjectID(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch members", err.Error())
	}
	return toMemberResponses(members), nil
}

// OwnershipTransferChoices returns ("", "Do not change") followed by one choice per non-owner member.
// Only the owner may see them.
func (s *membershipServiceImpl) OwnershipTransferChoices(ctx context.Context, projectID, requesterID uuid.UUID) ([]dto.ChoiceResponse, error) {
	if _, err := s.access.owner(ctx, projectID, requesterID, "Only owner can edit this project"); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, internalError(err, "Failed to load project", "Project not found")
	}
	members, err := s.memberRepo.FindNonOwnersByProjectID(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch members", err.Error())
	}

	choices := make([]dto.ChoiceResponse, 0, len(members)+1)
	choices = append(choices, dto.ChoiceResponse{Value: "", Label: DoNotChangeLabel})
	for _, m := range members {
		choices = append(choices, dto.ChoiceResponse{
			Value: m.ID.String(),
			Label: m.DisplayName(project.Name),
		})
	}
	return choices, nil
}

// UpdateMemberRole changes the role of a non-owner member
func (s *membershipServiceImpl) UpdateMemberRole(ctx context.Context, projectID, requesterID, memberID uuid.UUID, role domain.MemberRole) (*dto.MemberResponse, error) {
	if _, err := s.access.manager(ctx, projectID, requesterID); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, response.NewValidationError("Invalid member role", string(role))
	}
	if role == domain.MemberRoleOwner {
		return nil, response.NewValidationError("Ownership can only be given by transfer", "")
	}

	member, err := s.projectMember(ctx, projectID, memberID)
	if err != nil {
		return nil, err
	}
	if member.Role == domain.MemberRoleOwner {
		return nil, response.NewValidationError("The owner's role changes only through ownership transfer", "")
	}

	if err := s.memberRepo.UpdateRole(ctx, memberID, role); err != nil {
		return nil, internalError(err, "Failed to update member role", "Project member does not exist")
	}
	member.Role = role

	resp := toMemberResponse(member)
	return &resp, nil
}

// RemoveMember removes a non-owner member. Members may also remove themselves.
func (s *membershipServiceImpl) RemoveMember(ctx context.Context, projectID, requesterID, memberID uuid.UUID) error {
	requester, err := s.access.member(ctx, projectID, requesterID)
	if err != nil {
		return err
	}

	member, err := s.projectMember(ctx, projectID, memberID)
	if err != nil {
		return err
	}
	if member.Role == domain.MemberRoleOwner {
		return response.NewValidationError("Project owner cannot be removed", "")
	}
	if member.UserID != requesterID && !requester.Role.CanManageMembers() {
		return response.NewForbiddenError("Only owner or admin can manage this project", "")
	}

	if err := s.memberRepo.Delete(ctx, memberID); err != nil {
		return internalError(err, "Failed to remove member", "Project member does not exist")
	}

	s.logger.Info("Member removed",
		zap.String("project_id", projectID.String()),
		zap.String("user_id", member.UserID.String()),
	)
	return nil
}

// projectMember loads memberID and checks that it belongs to projectID
func (s *membershipServiceImpl) projectMember(ctx context.Context, projectID, memberID uuid.UUID) (*domain.ProjectMember, error) {
	member, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		return nil, internalError(err, "Failed to load member", "Project member does not exist")
	}
	if member.ProjectID != projectID {
		return nil, response.NewNotFoundError("Project member does not exist", "")
	}
	return member, nil
}
