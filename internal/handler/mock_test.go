package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"project-task-api/internal/domain"
	"project-task-api/internal/dto"
	"project-task-api/internal/service"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// withUser stands in for the auth middleware
func withUser(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("jwtToken", "test-token")
		c.Next()
	}
}

// MockProjectService is a mock implementation of ProjectService
type MockProjectService struct {
	ListProjectsFunc     func(ctx context.Context, userID uuid.UUID) ([]dto.ProjectResponse, error)
	GetProjectDetailFunc func(ctx context.Context, projectID, userID uuid.UUID) (*dto.ProjectDetailResponse, error)
	GetEditFormFunc      func(ctx context.Context, projectID, userID uuid.UUID) (*dto.ProjectEditFormResponse, error)
	UpdateProjectFunc    func(ctx context.Context, projectID, userID uuid.UUID, req *dto.UpdateProjectRequest) (*dto.ProjectUpdateResponse, error)
	DeleteProjectFunc    func(ctx context.Context, projectID, userID uuid.UUID) error
	GetDashboardFunc     func(ctx context.Context, userID uuid.UUID) (*dto.DashboardResponse, error)
}

func (m *MockProjectService) ListProjects(ctx context.Context, userID uuid.UUID) ([]dto.ProjectResponse, error) {
	if m.ListProjectsFunc != nil {
		return m.ListProjectsFunc(ctx, userID)
	}
	return []dto.ProjectResponse{}, nil
}

func (m *MockProjectService) GetProjectDetail(ctx context.Context, projectID, userID uuid.UUID) (*dto.ProjectDetailResponse, error) {
	if m.GetProjectDetailFunc != nil {
		return m.GetProjectDetailFunc(ctx, projectID, userID)
	}
	return &dto.ProjectDetailResponse{}, nil
}

func (m *MockProjectService) GetEditForm(ctx context.Context, projectID, userID uuid.UUID) (*dto.ProjectEditFormResponse, error) {
	if m.GetEditFormFunc != nil {
		return m.GetEditFormFunc(ctx, projectID, userID)
	}
	return &dto.ProjectEditFormResponse{}, nil
}

func (m *MockProjectService) UpdateProject(ctx context.Context, projectID, userID uuid.UUID, req *dto.UpdateProjectRequest) (*dto.ProjectUpdateResponse, error) {
	if m.UpdateProjectFunc != nil {
		return m.UpdateProjectFunc(ctx, projectID, userID, req)
	}
	return &dto.ProjectUpdateResponse{}, nil
}

func (m *MockProjectService) DeleteProject(ctx context.Context, projectID, userID uuid.UUID) error {
	if m.DeleteProjectFunc != nil {
		return m.DeleteProjectFunc(ctx, projectID, userID)
	}
	return nil
}

func (m *MockProjectService) GetDashboard(ctx context.Context, userID uuid.UUID) (*dto.DashboardResponse, error) {
	if m.GetDashboardFunc != nil {
		return m.GetDashboardFunc(ctx, userID)
	}
	return &dto.DashboardResponse{}, nil
}

// MockMembershipService is a mock implementation of MembershipService
type MockMembershipService struct {
	CreateProjectFunc             func(ctx context.Context, requesterID uuid.UUID, name, description string) (*dto.ProjectResponse, error)
	AddMemberFunc                 func(ctx context.Context, projectID, requesterID, userID uuid.UUID, role domain.MemberRole) (*dto.MemberResponse, error)
	TransferOwnershipFunc         func(ctx context.Context, projectID, requesterID, newOwnerMemberID uuid.UUID) (*service.TransferResult, error)
	UpdateAndTransferFunc         func(ctx context.Context, project *domain.Project, requesterID, newOwnerMemberID uuid.UUID) (*service.TransferResult, error)
	ListMembersFunc               func(ctx context.Context, projectID, requesterID uuid.UUID) ([]dto.MemberResponse, error)
	ListMembersExcludingOwnerFunc func(ctx context.Context, projectID, requesterID uuid.UUID) ([]dto.MemberResponse, error)
	UpdateMemberRoleFunc          func(ctx context.Context, projectID, requesterID, memberID uuid.UUID, role domain.MemberRole) (*dto.MemberResponse, error)
	RemoveMemberFunc              func(ctx context.Context, projectID, requesterID, memberID uuid.UUID) error
}

func (m *MockMembershipService) CreateProject(ctx context.Context, requesterID uuid.UUID, name, description string) (*dto.ProjectResponse, error) {
	if m.CreateProjectFunc != nil {
		return m.CreateProjectFunc(ctx, requesterID, name, description)
	}
	return &dto.ProjectResponse{ProjectID: uuid.New(), Name: name, OwnerID: requesterID}, nil
}

func (m *MockMembershipService) AddMember(ctx context.Context, projectID, requesterID, userID uuid.UUID, role domain.MemberRole) (*dto.MemberResponse, error) {
	if m.AddMemberFunc != nil {
		return m.AddMemberFunc(ctx, projectID, requesterID, userID, role)
	}
	return &dto.MemberResponse{MemberID: uuid.New(), ProjectID: projectID, UserID: userID, Role: string(role)}, nil
}

func (m *MockMembershipService) TransferOwnership(ctx context.Context, projectID, requesterID, newOwnerMemberID uuid.UUID) (*service.TransferResult, error) {
	if m.TransferOwnershipFunc != nil {
		return m.TransferOwnershipFunc(ctx, projectID, requesterID, newOwnerMemberID)
	}
	return &service.TransferResult{}, nil
}

func (m *MockMembershipService) UpdateAndTransferOwnership(ctx context.Context, project *domain.Project, requesterID, newOwnerMemberID uuid.UUID) (*service.TransferResult, error) {
	if m.UpdateAndTransferFunc != nil {
		return m.UpdateAndTransferFunc(ctx, project, requesterID, newOwnerMemberID)
	}
	return &service.TransferResult{}, nil
}

func (m *MockMembershipService) ListMembers(ctx context.Context, projectID, requesterID uuid.UUID) ([]dto.MemberResponse, error) {
	if m.ListMembersFunc != nil {
		return m.ListMembersFunc(ctx, projectID, requesterID)
	}
	return []dto.MemberResponse{}, nil
}

func (m *MockMembershipService) ListMembersExcludingOwner(ctx context.Context, projectID, requesterID uuid.UUID) ([]dto.MemberResponse, error) {
	if m.ListMembersExcludingOwnerFunc != nil {
		return m.ListMembersExcludingOwnerFunc(ctx, projectID, requesterID)
	}
	return []dto.MemberResponse{}, nil
}

func (m *MockMembershipService) OwnershipTransferChoices(ctx context.Context, projectID, requesterID uuid.UUID) ([]dto.ChoiceResponse, error) {
	return []dto.ChoiceResponse{{Value: "", Label: service.DoNotChangeLabel}}, nil
}

func (m *MockMembershipService) UpdateMemberRole(ctx context.Context, projectID, requesterID, memberID uuid.UUID, role domain.MemberRole) (*dto.MemberResponse, error) {
	if m.UpdateMemberRoleFunc != nil {
		return m.UpdateMemberRoleFunc(ctx, projectID, requesterID, memberID, role)
	}
	return &dto.MemberResponse{MemberID: memberID, ProjectID: projectID, Role: string(role)}, nil
}

func (m *MockMembershipService) RemoveMember(ctx context.Context, projectID, requesterID, memberID uuid.UUID) error {
	if m.RemoveMemberFunc != nil {
		return m.RemoveMemberFunc(ctx, projectID, requesterID, memberID)
	}
	return nil
}

// MockTaskService is a mock implementation of TaskService
type MockTaskService struct {
	CreateTaskFunc    func(ctx context.Context, projectID, userID uuid.UUID, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	GetTaskFunc       func(ctx context.Context, taskID, userID uuid.UUID) (*dto.TaskResponse, error)
	ListUserTasksFunc func(ctx context.Context, userID uuid.UUID) ([]dto.TaskResponse, error)
	UpdateTaskFunc    func(ctx context.Context, taskID, userID uuid.UUID, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error)
	AssignUserFunc    func(ctx context.Context, taskID, userID uuid.UUID, req *dto.AssignTaskRequest) (*dto.AssigneeResponse, error)
}

func (m *MockTaskService) CreateTask(ctx context.Context, projectID, userID uuid.UUID, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	if m.CreateTaskFunc != nil {
		return m.CreateTaskFunc(ctx, projectID, userID, req)
	}
	return &dto.TaskResponse{TaskID: uuid.New(), ProjectID: projectID, Title: req.Title}, nil
}

func (m *MockTaskService) GetTask(ctx context.Context, taskID, userID uuid.UUID) (*dto.TaskResponse, error) {
	if m.GetTaskFunc != nil {
		return m.GetTaskFunc(ctx, taskID, userID)
	}
	return &dto.TaskResponse{TaskID: taskID}, nil
}

func (m *MockTaskService) ListProjectTasks(ctx context.Context, projectID, userID uuid.UUID) ([]dto.TaskResponse, error) {
	return []dto.TaskResponse{}, nil
}

func (m *MockTaskService) ListUserTasks(ctx context.Context, userID uuid.UUID) ([]dto.TaskResponse, error) {
	if m.ListUserTasksFunc != nil {
		return m.ListUserTasksFunc(ctx, userID)
	}
	return []dto.TaskResponse{}, nil
}

func (m *MockTaskService) UpdateTask(ctx context.Context, taskID, userID uuid.UUID, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	if m.UpdateTaskFunc != nil {
		return m.UpdateTaskFunc(ctx, taskID, userID, req)
	}
	return &dto.TaskResponse{TaskID: taskID}, nil
}

func (m *MockTaskService) DeleteTask(ctx context.Context, taskID, userID uuid.UUID) error {
	return nil
}

func (m *MockTaskService) AssignUser(ctx context.Context, taskID, userID uuid.UUID, req *dto.AssignTaskRequest) (*dto.AssigneeResponse, error) {
	if m.AssignUserFunc != nil {
		return m.AssignUserFunc(ctx, taskID, userID, req)
	}
	return &dto.AssigneeResponse{UserID: req.UserID, Role: req.Role}, nil
}

func (m *MockTaskService) UnassignUser(ctx context.Context, taskID, userID, assigneeID uuid.UUID) error {
	return nil
}

func (m *MockTaskService) AttachLabel(ctx context.Context, taskID, userID, labelID uuid.UUID) (*dto.LabelResponse, error) {
	return &dto.LabelResponse{LabelID: labelID}, nil
}

func (m *MockTaskService) DetachLabel(ctx context.Context, taskID, userID, labelID uuid.UUID) error {
	return nil
}

func (m *MockTaskService) ListActivities(ctx context.Context, taskID, userID uuid.UUID) ([]dto.ActivityResponse, error) {
	return []dto.ActivityResponse{}, nil
}

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	RegisterFunc func(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	LoginFunc    func(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	LogoutFunc   func(ctx context.Context, token string) error
}

func (m *MockAuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	return &dto.AuthResponse{AccessToken: "token", TokenType: "Bearer"}, nil
}

func (m *MockAuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	return &dto.AuthResponse{AccessToken: "token", TokenType: "Bearer"}, nil
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, token)
	}
	return nil
}

func (m *MockAuthService) GetUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	return &dto.UserResponse{UserID: userID, Username: "alice"}, nil
}
