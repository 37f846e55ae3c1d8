package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-task-api/internal/client"
	"project-task-api/internal/database"
	"project-task-api/internal/domain"
	"project-task-api/internal/dto"
	"project-task-api/internal/repository"
	"project-task-api/internal/response"
)

// testEnv wires every service against one in-memory SQLite database
type testEnv struct {
	db       *gorm.DB
	notifier *MockNotificationClient
	s3       *client.MockS3Client

	membership  MembershipService
	projects    ProjectService
	tasks       TaskService
	statuses    StatusService
	labels      LabelService
	comments    CommentService
	attachments AttachmentService
	auth        AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.New(database.Config{
		Driver: database.DriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	logger := zap.NewNop()
	notifier := &MockNotificationClient{}
	s3 := client.NewMockS3Client()

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	statusRepo := repository.NewStatusRepository(db)
	labelRepo := repository.NewLabelRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	assigneeRepo := repository.NewAssigneeRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)

	membership := NewMembershipService(projectRepo, memberRepo, userRepo, notifier, nil, logger)
	return &testEnv{
		db:          db,
		notifier:    notifier,
		s3:          s3,
		membership:  membership,
		projects:    NewProjectService(projectRepo, memberRepo, statusRepo, labelRepo, taskRepo, attachmentRepo, membership, s3, logger),
		tasks:       NewTaskService(taskRepo, statusRepo, labelRepo, assigneeRepo, activityRepo, attachmentRepo, memberRepo, notifier, s3, nil, logger),
		statuses:    NewStatusService(statusRepo, memberRepo, logger),
		labels:      NewLabelService(labelRepo, memberRepo),
		comments:    NewCommentService(commentRepo, taskRepo, memberRepo, userRepo, logger),
		attachments: NewAttachmentService(attachmentRepo, taskRepo, memberRepo, s3, logger),
		auth:        NewAuthService(userRepo, &MockTokenIssuer{}, &MockTokenRevoker{}, logger),
	}
}

func (e *testEnv) user(t *testing.T, username string) *domain.User {
	t.Helper()
	user := &domain.User{Username: username, PasswordHash: "x"}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) project(t *testing.T, owner *domain.User, name string) uuid.UUID {
	t.Helper()
	project, err := e.membership.CreateProject(context.Background(), owner.ID, name, "")
	require.NoError(t, err)
	return project.ProjectID
}

func (e *testEnv) member(t *testing.T, projectID uuid.UUID, owner, user *domain.User, role domain.MemberRole) dto.MemberResponse {
	t.Helper()
	member, err := e.membership.AddMember(context.Background(), projectID, owner.ID, user.ID, role)
	require.NoError(t, err)
	return *member
}

func (e *testEnv) status(t *testing.T, projectID uuid.UUID, owner *domain.User, name string, order int) dto.StatusResponse {
	t.Helper()
	status, err := e.statuses.CreateStatus(context.Background(), projectID, owner.ID, &dto.CreateStatusRequest{Name: name, Order: &order})
	require.NoError(t, err)
	return *status
}

func (e *testEnv) task(t *testing.T, projectID uuid.UUID, creator *domain.User, title string) dto.TaskResponse {
	t.Helper()
	task, err := e.tasks.CreateTask(context.Background(), projectID, creator.ID, &dto.CreateTaskRequest{Title: title})
	require.NoError(t, err)
	return *task
}

// roles maps usernames to their role in the project
func (e *testEnv) roles(t *testing.T, projectID uuid.UUID) map[string]domain.MemberRole {
	t.Helper()
	members, err := repository.NewMemberRepository(e.db).FindByProjectID(context.Background(), projectID)
	require.NoError(t, err)
	result := make(map[string]domain.MemberRole, len(members))
	for _, m := range members {
		result[m.User.Username] = m.Role
	}
	return result
}

func (e *testEnv) countOwners(t *testing.T, projectID uuid.UUID) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(&domain.ProjectMember{}).
		Where("project_id = ? AND role = ?", projectID, domain.MemberRoleOwner).
		Count(&count).Error)
	return count
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.True(t, response.HasCode(err, code), "expected %s, got %v", code, err)
}

func tomorrow() *time.Time {
	d := time.Now().Add(24 * time.Hour)
	return &d
}

func yesterday() *time.Time {
	d := time.Now().Add(-24 * time.Hour)
	return &d
}
