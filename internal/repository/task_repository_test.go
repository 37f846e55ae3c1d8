package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"project-task-api/internal/domain"
)

func taskIDs(tasks []*domain.Task) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	return ids
}

func TestTaskRepository_FindByUserID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	assignees := NewAssigneeRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	project, _ := createTestProject(t, db, alice, "Alpha")

	created := createTestTask(t, db, project, alice, "created by alice")
	both := createTestTask(t, db, project, alice, "created and assigned")
	assigned := createTestTask(t, db, project, bob, "assigned to alice")
	unrelated := createTestTask(t, db, project, bob, "bob only")

	for _, task := range []*domain.Task{both, assigned} {
		require.NoError(t, assignees.Create(ctx, &domain.Assignee{TaskID: task.ID, UserID: alice.ID}))
	}

	tasks, err := repo.FindByUserID(ctx, alice.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{created.ID, both.ID, assigned.ID}, taskIDs(tasks))
	assert.NotContains(t, taskIDs(tasks), unrelated.ID)

	assignedOnly, err := repo.FindAssignedTo(ctx, alice.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{both.ID, assigned.ID}, taskIDs(assignedOnly))
}

func TestTaskRepository_Ordering(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	project, _ := createTestProject(t, db, alice, "Alpha")

	base := time.Now().UTC()
	mk := func(title string, order int, createdAt time.Time) *domain.Task {
		task := &domain.Task{ProjectID: project.ID, Title: title, Order: order, Priority: domain.PriorityLow}
		task.CreatedAt = createdAt
		require.NoError(t, repo.Create(ctx, task))
		return task
	}
	older := mk("older", 0, base)
	newer := mk("newer", 0, base.Add(time.Minute))
	later := mk("later", 1, base.Add(2*time.Minute))

	tasks, err := repo.FindByProjectID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{newer.ID, older.ID, later.ID}, taskIDs(tasks))
	assert.Equal(t, domain.PriorityLow, tasks[0].Priority)
}

func TestTaskRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	project, _ := createTestProject(t, db, alice, "Alpha")
	status := &domain.Status{ProjectID: project.ID, Name: "Doing", Order: 2}
	require.NoError(t, db.Create(status).Error)
	task := createTestTask(t, db, project, alice, "Draft")

	due := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
	estimate := 90 * time.Minute
	task.Title = "Final"
	task.Priority = domain.PriorityHighest
	task.StatusID = &status.ID
	task.DueDate = &due
	task.EstimatedDuration = &estimate
	require.NoError(t, repo.Update(ctx, task))

	reloaded, err := repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final", reloaded.Title)
	assert.Equal(t, domain.PriorityHighest, reloaded.Priority)
	require.NotNil(t, reloaded.Status)
	assert.Equal(t, "Doing", reloaded.Status.Name)
	require.NotNil(t, reloaded.DueDate)
	assert.True(t, due.Equal(*reloaded.DueDate))
	require.NotNil(t, reloaded.EstimatedDuration)
	assert.Equal(t, estimate, *reloaded.EstimatedDuration)
	require.NotNil(t, reloaded.CreatorID)
	assert.Equal(t, alice.ID, *reloaded.CreatorID)
}

func TestTaskRepository_Delete_Cascades(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	project, _ := createTestProject(t, db, alice, "Alpha")
	task := createTestTask(t, db, project, alice, "Doomed")
	other := createTestTask(t, db, project, alice, "Survivor")

	for _, id := range []uuid.UUID{task.ID, other.ID} {
		require.NoError(t, db.Create(&domain.Assignee{TaskID: id, UserID: alice.ID}).Error)
		require.NoError(t, db.Create(&domain.Comment{TaskID: id, AuthorID: alice.ID, Content: "c"}).Error)
	}

	require.NoError(t, repo.Delete(ctx, task.ID))

	var assigneeCount, commentCount int64
	require.NoError(t, db.Model(&domain.Assignee{}).Count(&assigneeCount).Error)
	require.NoError(t, db.Model(&domain.Comment{}).Count(&commentCount).Error)
	assert.Equal(t, int64(1), assigneeCount)
	assert.Equal(t, int64(1), commentCount)

	assert.ErrorIs(t, repo.Delete(ctx, task.ID), gorm.ErrRecordNotFound)
}

func TestStatusRepository_DeleteClearsTaskStatus(t *testing.T) {
	db := setupTestDB(t)
	statuses := NewStatusRepository(db)
	tasks := NewTaskRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	project, _ := createTestProject(t, db, alice, "Alpha")
	status := &domain.Status{ProjectID: project.ID, Name: "Todo", Order: 1}
	require.NoError(t, statuses.Create(ctx, status))

	exists, err := statuses.ExistsByOrder(ctx, project.ID, 1)
	require.NoError(t, err)
	assert.True(t, exists)

	dup := &domain.Status{ProjectID: project.ID, Name: "Also todo", Order: 1}
	assert.ErrorIs(t, statuses.Create(ctx, dup), gorm.ErrDuplicatedKey)

	task := createTestTask(t, db, project, alice, "Stateful")
	task.StatusID = &status.ID
	require.NoError(t, tasks.Update(ctx, task))

	require.NoError(t, statuses.Delete(ctx, status.ID))

	reloaded, err := tasks.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.StatusID)
}

func TestLabelRepository_AttachAndDetach(t *testing.T) {
	db := setupTestDB(t)
	labels := NewLabelRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	project, _ := createTestProject(t, db, alice, "Alpha")
	task := createTestTask(t, db, project, alice, "Labelled")

	bug := &domain.Label{ProjectID: project.ID, Name: "bug", Color: "#ff0000"}
	require.NoError(t, labels.Create(ctx, bug))

	exists, err := labels.ExistsByName(ctx, project.ID, "bug")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, labels.AttachToTask(ctx, &domain.TaskLabel{TaskID: task.ID, LabelID: bug.ID}))
	assert.ErrorIs(t, labels.AttachToTask(ctx, &domain.TaskLabel{TaskID: task.ID, LabelID: bug.ID}), gorm.ErrDuplicatedKey)

	attached, err := labels.FindByTaskID(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, attached, 1)
	assert.Equal(t, "bug", attached[0].Name)

	require.NoError(t, labels.DetachFromTask(ctx, task.ID, bug.ID))
	assert.ErrorIs(t, labels.DetachFromTask(ctx, task.ID, bug.ID), gorm.ErrRecordNotFound)
}
