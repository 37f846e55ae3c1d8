package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"project-task-api/internal/database"
	"project-task-api/internal/domain"
)

// setupTestDB opens an isolated in-memory SQLite database with all models migrated
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.New(database.Config{
		Driver: database.DriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	user := &domain.User{Username: username, PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestProject(t *testing.T, db *gorm.DB, owner *domain.User, name string) (*domain.Project, *domain.ProjectMember) {
	t.Helper()
	project := &domain.Project{OwnerID: owner.ID, Name: name}
	member, err := NewProjectRepository(db).CreateWithOwner(context.Background(), project)
	require.NoError(t, err)
	return project, member
}

func addTestMember(t *testing.T, db *gorm.DB, project *domain.Project, user *domain.User, role domain.MemberRole) *domain.ProjectMember {
	t.Helper()
	member := &domain.ProjectMember{ProjectID: project.ID, UserID: user.ID, Role: role}
	require.NoError(t, NewMemberRepository(db).Create(context.Background(), member))
	return member
}

func createTestTask(t *testing.T, db *gorm.DB, project *domain.Project, creator *domain.User, title string) *domain.Task {
	t.Helper()
	task := &domain.Task{ProjectID: project.ID, Title: title, Priority: domain.DefaultTaskPriority}
	if creator != nil {
		task.CreatorID = &creator.ID
	}
	require.NoError(t, NewTaskRepository(db).Create(context.Background(), task))
	return task
}

func countOwners(t *testing.T, db *gorm.DB, projectID uuid.UUID) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&domain.ProjectMember{}).
		Where("project_id = ? AND role = ?", projectID, domain.MemberRoleOwner).
		Count(&count).Error)
	return count
}
