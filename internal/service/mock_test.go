package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"project-task-api/internal/client"
	"project-task-api/internal/domain"
)

// MockProjectRepository is a mock implementation of ProjectRepository
type MockProjectRepository struct {
	CreateWithOwnerFunc    func(ctx context.Context, project *domain.Project) (*domain.ProjectMember, error)
	FindByIDFunc           func(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	FindByUserIDFunc       func(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error)
	UpdateFunc             func(ctx context.Context, project *domain.Project) error
	DeleteFunc             func(ctx context.Context, id uuid.UUID) error
	TransferOwnershipFunc  func(ctx context.Context, projectID, requesterID, newOwnerMemberID uuid.UUID) (*domain.ProjectMember, error)
	UpdateWithTransferFunc func(ctx context.Context, project *domain.Project, requesterID, newOwnerMemberID uuid.UUID) (*domain.ProjectMember, error)
	CountFunc              func(ctx context.Context) (int64, error)
}

func (m *MockProjectRepository) CreateWithOwner(ctx context.Context, project *domain.Project) (*domain.ProjectMember, error) {
	if m.CreateWithOwnerFunc != nil {
		return m.CreateWithOwnerFunc(ctx, project)
	}
	return nil, nil
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockProjectRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error) {
	if m.FindByUserIDFunc != nil {
		return m.FindByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, project)
	}
	return nil
}

func (m *MockProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockProjectRepository) TransferOwnership(ctx context.Context, projectID, requesterID, newOwnerMemberID uuid.UUID) (*domain.ProjectMember, error) {
	if m.TransferOwnershipFunc != nil {
		return m.TransferOwnershipFunc(ctx, projectID, requesterID, newOwnerMemberID)
	}
	return nil, nil
}

func (m *MockProjectRepository) UpdateWithTransfer(ctx context.Context, project *domain.Project, requesterID, newOwnerMemberID uuid.UUID) (*domain.ProjectMember, error) {
	if m.UpdateWithTransferFunc != nil {
		return m.UpdateWithTransferFunc(ctx, project, requesterID, newOwnerMemberID)
	}
	return nil, nil
}

func (m *MockProjectRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

// MockMemberRepository is a mock implementation of MemberRepository
type MockMemberRepository struct {
	CreateFunc                   func(ctx context.Context, member *domain.ProjectMember) error
	FindByIDFunc                 func(ctx context.Context, id uuid.UUID) (*domain.ProjectMember, error)
	FindByProjectAndUserFunc     func(ctx context.Context, projectID, userID uuid.UUID) (*domain.ProjectMember, error)
	FindByProjectIDFunc          func(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectMember, error)
	FindNonOwnersByProjectIDFunc func(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectMember, error)
	UpdateRoleFunc               func(ctx context.Context, id uuid.UUID, role domain.MemberRole) error
	DeleteFunc                   func(ctx context.Context, id uuid.UUID) error
}

func (m *MockMemberRepository) Create(ctx context.Context, member *domain.ProjectMember) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, member)
	}
	return nil
}

func (m *MockMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ProjectMember, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockMemberRepository) FindByProjectAndUser(ctx context.Context, projectID, userID uuid.UUID) (*domain.ProjectMember, error) {
	if m.FindByProjectAndUserFunc != nil {
		return m.FindByProjectAndUserFunc(ctx, projectID, userID)
	}
	return nil, nil
}

func (m *MockMemberRepository) FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectMember, error) {
	if m.FindByProjectIDFunc != nil {
		return m.FindByProjectIDFunc(ctx, projectID)
	}
	return nil, nil
}

func (m *MockMemberRepository) FindNonOwnersByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectMember, error) {
	if m.FindNonOwnersByProjectIDFunc != nil {
		return m.FindNonOwnersByProjectIDFunc(ctx, projectID)
	}
	return nil, nil
}

func (m *MockMemberRepository) UpdateRole(ctx context.Context, id uuid.UUID, role domain.MemberRole) error {
	if m.UpdateRoleFunc != nil {
		return m.UpdateRoleFunc(ctx, id, role)
	}
	return nil
}

func (m *MockMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	CreateFunc         func(ctx context.Context, user *domain.User) error
	FindByIDFunc       func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByUsernameFunc func(ctx context.Context, username string) (*domain.User, error)
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.FindByUsernameFunc != nil {
		return m.FindByUsernameFunc(ctx, username)
	}
	return nil, nil
}

// MockTokenIssuer is a mock implementation of TokenIssuer
type MockTokenIssuer struct {
	IssueFunc func(userID uuid.UUID) (string, time.Time, error)
}

func (m *MockTokenIssuer) Issue(userID uuid.UUID) (string, time.Time, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(userID)
	}
	return "token-" + userID.String(), time.Now().Add(time.Hour), nil
}

// MockTokenRevoker is a mock implementation of TokenRevoker
type MockTokenRevoker struct {
	RevokeFunc func(ctx context.Context, tokenString string) error
}

func (m *MockTokenRevoker) Revoke(ctx context.Context, tokenString string) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, tokenString)
	}
	return nil
}

// MockNotificationClient records every event it is asked to send
type MockNotificationClient struct {
	mu     sync.Mutex
	events []client.NotificationEvent
}

func (m *MockNotificationClient) SendNotification(ctx context.Context, event client.NotificationEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockNotificationClient) SendBulkNotifications(ctx context.Context, events []client.NotificationEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

// Events returns the recorded events of type t
func (m *MockNotificationClient) Events(t client.NotificationType) []client.NotificationEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []client.NotificationEvent
	for _, e := range m.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}
