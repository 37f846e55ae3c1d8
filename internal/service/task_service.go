package service

import (
	"context"
	"errors"
	"strings"
	"time"

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

// TaskService defines the interface for task business logic
type TaskService interface {
	CreateTask(ctx context.Context, projectID, userID uuid.UUID, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	GetTask(ctx context.Context, taskID, userID uuid.UUID) (*dto.TaskResponse, error)
	ListProjectTasks(ctx context.Context, projectID, userID uuid.UUID) ([]dto.TaskResponse, error)
	ListUserTasks(ctx context.Context, userID uuid.UUID) ([]dto.TaskResponse, error)
	UpdateTask(ctx context.Context, taskID, userID uuid.UUID, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error)
	DeleteTask(ctx context.Context, taskID, userID uuid.UUID) error
	AssignUser(ctx context.Context, taskID, userID uuid.UUID, req *dto.AssignTaskRequest) (*dto.AssigneeResponse, error)
	UnassignUser(ctx context.Context, taskID, userID, assigneeID uuid.UUID) error
	AttachLabel(ctx context.Context, taskID, userID, labelID uuid.UUID) (*dto.LabelResponse, error)
	DetachLabel(ctx context.Context, taskID, userID, labelID uuid.UUID) error
	ListActivities(ctx context.Context, taskID, userID uuid.UUID) ([]dto.ActivityResponse, error)
}

// taskServiceImpl is the implementation of TaskService
type taskServiceImpl struct {
	taskRepo       repository.TaskRepository
	statusRepo     repository.StatusRepository
	labelRepo      repository.LabelRepository
	assigneeRepo   repository.AssigneeRepository
	activityRepo   repository.ActivityRepository
	attachmentRepo repository.AttachmentRepository
	memberRepo     repository.MemberRepository
	access         projectAccess
	tasks          taskAccess
	notification   client.NotificationClient
	s3Client       client.S3ClientInterface
	metrics        *metrics.Metrics
	logger         *zap.Logger
	now            func() time.Time
}

// NewTaskService creates a new instance of TaskService
func NewTaskService(
	taskRepo repository.TaskRepository,
	statusRepo repository.StatusRepository,
	labelRepo repository.LabelRepository,
	assigneeRepo repository.AssigneeRepository,
	activityRepo repository.ActivityRepository,
	attachmentRepo repository.AttachmentRepository,
	memberRepo repository.MemberRepository,
	notification client.NotificationClient,
	s3Client client.S3ClientInterface,
	m *metrics.Metrics,
	logger *zap.Logger,
) TaskService {
	if notification == nil {
		notification = client.NewNoOpNotificationClient()
	}
	access := projectAccess{memberRepo: memberRepo}
	return &taskServiceImpl{
		taskRepo:       taskRepo,
		statusRepo:     statusRepo,
		labelRepo:      labelRepo,
		assigneeRepo:   assigneeRepo,
		activityRepo:   activityRepo,
		attachmentRepo: attachmentRepo,
		memberRepo:     memberRepo,
		access:         access,
		tasks:          taskAccess{taskRepo: taskRepo, access: access},
		notification:   notification,
		s3Client:       s3Client,
		metrics:        m,
		logger:         logger,
		now:            time.Now,
	}
}

// CreateTask creates a task in the project and records a created activity
func (s *taskServiceImpl) CreateTask(ctx context.Context, projectID, userID uuid.UUID, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	if _, err := s.access.writer(ctx, projectID, userID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, response.NewValidationError("Title is required", "")
	}
	if err := s.validateDueDate(req.DueDate); err != nil {
		return nil, err
	}

	priority := domain.DefaultTaskPriority
	if req.Priority != nil {
		p, err := domain.ParseTaskPriority(*req.Priority)
		if err != nil {
			return nil, response.NewValidationError("Invalid priority", err.Error())
		}
		priority = p
	}

	if req.StatusID != nil {
		if err := s.validateStatus(ctx, projectID, *req.StatusID); err != nil {
			return nil, err
		}
	}

	estimated, err := parseDuration("estimated duration", req.EstimatedDuration)
	if err != nil {
		return nil, err
	}
	actual, err := parseDuration("actual duration", req.ActualDuration)
	if err != nil {
		return nil, err
	}

	creatorID := userID
	task := &domain.Task{
		ProjectID:         projectID,
		CreatorID:         &creatorID,
		StatusID:          req.StatusID,
		Title:             title,
		Description:       req.Description,
		Priority:          priority,
		DueDate:           req.DueDate,
		EstimatedDuration: estimated,
		ActualDuration:    actual,
	}
	if req.Order != nil {
		task.Order = *req.Order
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		s.logger.Error("Failed to create task", zap.String("project_id", projectID.String()), zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create task", err.Error())
	}

	s.metrics.IncrementTaskCreated()
	s.recordActivity(ctx, task.ID, userID, domain.ActivityCreated, nil, taskSnapshot(task))

	created, err := s.taskRepo.FindByID(ctx, task.ID)
	if err != nil {
		return nil, internalError(err, "Failed to fetch task", "Task not found")
	}
	resp := toTaskResponse(created)
	return &resp, nil
}

// GetTask returns a task visible to the requester
func (s *taskServiceImpl) GetTask(ctx context.Context, taskID, userID uuid.UUID) (*dto.TaskResponse, error) {
	task, _, err := s.tasks.load(ctx, taskID, userID, false)
	if err != nil {
		return nil, err
	}
	resp := toTaskResponse(task)
	return &resp, nil
}

// ListProjectTasks lists the tasks of a project the requester belongs to
func (s *taskServiceImpl) ListProjectTasks(ctx context.Context, projectID, userID uuid.UUID) ([]dto.TaskResponse, error) {
	if _, err := s.access.member(ctx, projectID, userID); err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch tasks", err.Error())
	}
	return toTaskResponses(tasks), nil
}

// ListUserTasks lists every task the user created or is assigned to, each once
func (s *taskServiceImpl) ListUserTasks(ctx context.Context, userID uuid.UUID) ([]dto.TaskResponse, error) {
	tasks, err := s.taskRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch tasks", err.Error())
	}
	return toTaskResponses(tasks), nil
}

// UpdateTask applies the provided fields and records what changed.
// A status change is recorded as status_changed, anything else as updated.
func (s *taskServiceImpl) UpdateTask(ctx context.Context, taskID, userID uuid.UUID, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	task, _, err := s.tasks.load(ctx, taskID, userID, true)
	if err != nil {
		return nil, err
	}
	before := taskSnapshot(task)

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, response.NewValidationError("Title is required", "")
		}
		task.Title = title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Order != nil {
		task.Order = *req.Order
	}
	if req.Priority != nil {
		p, err := domain.ParseTaskPriority(*req.Priority)
		if err != nil {
			return nil, response.NewValidationError("Invalid priority", err.Error())
		}
		task.Priority = p
	}
	if req.DueDate != nil {
		if err := s.validateDueDate(req.DueDate); err != nil {
			return nil, err
		}
		task.DueDate = req.DueDate
	}
	if req.StatusID != nil {
		if err := s.validateStatus(ctx, task.ProjectID, *req.StatusID); err != nil {
			return nil, err
		}
		task.StatusID = req.StatusID
	}
	if req.EstimatedDuration != nil {
		d, err := parseDuration("estimated duration", *req.EstimatedDuration)
		if err != nil {
			return nil, err
		}
		task.EstimatedDuration = d
	}
	if req.ActualDuration != nil {
		d, err := parseDuration("actual duration", *req.ActualDuration)
		if err != nil {
			return nil, err
		}
		task.ActualDuration = d
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		s.logger.Error("Failed to update task", zap.String("task_id", taskID.String()), zap.Error(err))
		return nil, internalError(err, "Failed to update task", "Task not found")
	}

	oldValues, newValues := diffSnapshots(before, taskSnapshot(task))
	if len(newValues) > 0 {
		action := domain.ActivityUpdated
		if _, ok := newValues["status_id"]; ok {
			action = domain.ActivityStatusChanged
		}
		s.recordActivity(ctx, task.ID, userID, action, oldValues, newValues)
	}

	updated, err := s.taskRepo.FindByID(ctx, task.ID)
	if err != nil {
		return nil, internalError(err, "Failed to fetch task", "Task not found")
	}
	resp := toTaskResponse(updated)
	return &resp, nil
}

// DeleteTask removes the task with its children and stored files
func (s *taskServiceImpl) DeleteTask(ctx context.Context, taskID, userID uuid.UUID) error {
	if _, _, err := s.tasks.load(ctx, taskID, userID, true); err != nil {
		return err
	}

	keys, err := s.attachmentRepo.FindFileKeysByTaskID(ctx, taskID)
	if err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to fetch attachments", err.Error())
	}
	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		s.logger.Error("Failed to delete task", zap.String("task_id", taskID.String()), zap.Error(err))
		return internalError(err, "Failed to delete task", "Task not found")
	}

	deleteObjects(ctx, s.s3Client, s.logger, keys)
	s.logger.Info("Task deleted", zap.String("task_id", taskID.String()))
	return nil
}

// AssignUser attaches a project member to the task
func (s *taskServiceImpl) AssignUser(ctx context.Context, taskID, userID uuid.UUID, req *dto.AssignTaskRequest) (*dto.AssigneeResponse, error) {
	task, _, err := s.tasks.load(ctx, taskID, userID, true)
	if err != nil {
		return nil, err
	}

	role, err := domain.ParseAssigneeRole(req.Role)
	if err != nil {
		return nil, response.NewValidationError("Invalid assignee role", err.Error())
	}

	member, err := s.memberRepo.FindByProjectAndUser(ctx, task.ProjectID, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewValidationError("Assignee must be a project member", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check project membership", err.Error())
	}

	assignee := &domain.Assignee{
		TaskID: taskID,
		UserID: req.UserID,
		Role:   role,
	}
	if err := s.assigneeRepo.Create(ctx, assignee); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewConflictError("User is already assigned to this task", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to assign user", err.Error())
	}
	assignee.User = member.User

	s.recordActivity(ctx, taskID, userID, domain.ActivityAssigned, nil, map[string]interface{}{
		"user_id": req.UserID.String(),
		"role":    string(role),
	})

	if req.UserID != userID {
		_ = s.notification.SendNotification(ctx, client.NotificationEvent{
			Type:         client.NotificationTaskAssigned,
			ActorID:      userID,
			TargetUserID: req.UserID,
			ProjectID:    task.ProjectID,
			ResourceType: "task",
			ResourceID:   taskID,
			ResourceName: task.Title,
			Metadata:     map[string]interface{}{"role": string(role)},
		})
	}

	resp := toAssigneeResponse(assignee)
	return &resp, nil
}

// UnassignUser detaches assigneeID from the task
func (s *taskServiceImpl) UnassignUser(ctx context.Context, taskID, userID, assigneeID uuid.UUID) error {
	if _, _, err := s.tasks.load(ctx, taskID, userID, true); err != nil {
		return err
	}
	if err := s.assigneeRepo.Delete(ctx, taskID, assigneeID); err != nil {
		return internalError(err, "Failed to unassign user", "Assignee not found")
	}
	return nil
}

// AttachLabel puts a label of the same project on the task
func (s *taskServiceImpl) AttachLabel(ctx context.Context, taskID, userID, labelID uuid.UUID) (*dto.LabelResponse, error) {
	task, _, err := s.tasks.load(ctx, taskID, userID, true)
	if err != nil {
		return nil, err
	}

	label, err := s.labelRepo.FindByID(ctx, labelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewValidationError("Label must belong to the task's project", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch label", err.Error())
	}
	if label.ProjectID != task.ProjectID {
		return nil, response.NewValidationError("Label must belong to the task's project", "")
	}

	if err := s.labelRepo.AttachToTask(ctx, &domain.TaskLabel{TaskID: taskID, LabelID: labelID}); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewConflictError("Label is already attached to this task", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to attach label", err.Error())
	}

	resp := toLabelResponse(label)
	return &resp, nil
}

// DetachLabel removes a label from the task
func (s *taskServiceImpl) DetachLabel(ctx context.Context, taskID, userID, labelID uuid.UUID) error {
	if _, _, err := s.tasks.load(ctx, taskID, userID, true); err != nil {
		return err
	}
	if err := s.labelRepo.DetachFromTask(ctx, taskID, labelID); err != nil {
		return internalError(err, "Failed to detach label", "Label is not attached to this task")
	}
	return nil
}

// ListActivities returns the task's activity log, newest first
func (s *taskServiceImpl) ListActivities(ctx context.Context, taskID, userID uuid.UUID) ([]dto.ActivityResponse, error) {
	if _, _, err := s.tasks.load(ctx, taskID, userID, false); err != nil {
		return nil, err
	}
	activities, err := s.activityRepo.FindByTaskID(ctx, taskID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch activities", err.Error())
	}
	result := make([]dto.ActivityResponse, 0, len(activities))
	for _, a := range activities {
		result = append(result, toActivityResponse(a))
	}
	return result, nil
}

func (s *taskServiceImpl) validateDueDate(due *time.Time) error {
	if due != nil && due.Before(s.now()) {
		return response.NewValidationError("Due date cannot be in the past", "")
	}
	return nil
}

// validateStatus checks that statusID exists and belongs to projectID
func (s *taskServiceImpl) validateStatus(ctx context.Context, projectID, statusID uuid.UUID) error {
	status, err := s.statusRepo.FindByID(ctx, statusID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewValidationError("Status must belong to the task's project", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to fetch status", err.Error())
	}
	if status.ProjectID != projectID {
		return response.NewValidationError("Status must belong to the task's project", "")
	}
	return nil
}

// recordActivity appends to the audit log; a failure does not undo the change
func (s *taskServiceImpl) recordActivity(ctx context.Context, taskID, userID uuid.UUID, action domain.ActivityAction, oldValues, newValues map[string]interface{}) {
	actor := userID
	activity := &domain.Activity{
		TaskID:    taskID,
		UserID:    &actor,
		Action:    action,
		OldValues: encodeJSON(oldValues),
		NewValues: encodeJSON(newValues),
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		s.logger.Warn("Failed to record activity",
			zap.String("task_id", taskID.String()),
			zap.String("action", string(action)),
			zap.Error(err),
		)
	}
}

// taskSnapshot captures the audited fields in their JSON form
func taskSnapshot(task *domain.Task) map[string]interface{} {
	snapshot := map[string]interface{}{
		"title":              task.Title,
		"description":        task.Description,
		"order":              task.Order,
		"priority":           int(task.Priority),
		"due_date":           nil,
		"status_id":          nil,
		"estimated_duration": formatDuration(task.EstimatedDuration),
		"actual_duration":    formatDuration(task.ActualDuration),
	}
	if task.DueDate != nil {
		snapshot["due_date"] = task.DueDate.UTC().Format(time.RFC3339)
	}
	if task.StatusID != nil {
		snapshot["status_id"] = task.StatusID.String()
	}
	return snapshot
}

// diffSnapshots keeps only the keys whose values differ
func diffSnapshots(before, after map[string]interface{}) (map[string]interface{}, map[string]interface{}) {
	oldValues := map[string]interface{}{}
	newValues := map[string]interface{}{}
	for key, newValue := range after {
		if oldValue := before[key]; oldValue != newValue {
			oldValues[key] = oldValue
			newValues[key] = newValue
		}
	}
	return oldValues, newValues
}
