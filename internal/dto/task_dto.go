package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateTaskRequest represents the request to create a task in a project
// @Description priority is 1 (Highest) to 6 (Not a Priority) and defaults to 3 (Medium)
// @Description durations use Go duration syntax, e.g. "1h30m"
type CreateTaskRequest struct {
	Title             string     `json:"title" binding:"required,max=200" example:"Write release notes"`
	Description       string     `json:"description" example:"Cover every merged change"`
	StatusID          *uuid.UUID `json:"statusId,omitempty"`
	Priority          *int       `json:"priority,omitempty" example:"3"`
	Order             *int       `json:"order,omitempty" example:"0"`
	DueDate           *time.Time `json:"dueDate,omitempty" example:"2030-03-31T23:59:59Z"`
	EstimatedDuration string     `json:"estimatedDuration,omitempty" example:"2h"`
	ActualDuration    string     `json:"actualDuration,omitempty" example:"1h30m"`
}

// UpdateTaskRequest represents the request to update a task. All fields are optional.
type UpdateTaskRequest struct {
	Title             *string    `json:"title,omitempty" binding:"omitempty,max=200"`
	Description       *string    `json:"description,omitempty"`
	StatusID          *uuid.UUID `json:"statusId,omitempty"`
	Priority          *int       `json:"priority,omitempty"`
	Order             *int       `json:"order,omitempty"`
	DueDate           *time.Time `json:"dueDate,omitempty"`
	EstimatedDuration *string    `json:"estimatedDuration,omitempty"`
	ActualDuration    *string    `json:"actualDuration,omitempty"`
}

// TaskResponse represents a task
type TaskResponse struct {
	TaskID            uuid.UUID          `json:"taskId"`
	ProjectID         uuid.UUID          `json:"projectId"`
	CreatorID         *uuid.UUID         `json:"creatorId,omitempty"`
	Status            *StatusResponse    `json:"status,omitempty"`
	Title             string             `json:"title"`
	Description       string             `json:"description"`
	Order             int                `json:"order"`
	Priority          int                `json:"priority" example:"3"`
	PriorityLabel     string             `json:"priorityLabel" example:"Medium"`
	DueDate           *time.Time         `json:"dueDate,omitempty"`
	EstimatedDuration string             `json:"estimatedDuration,omitempty"`
	ActualDuration    string             `json:"actualDuration,omitempty"`
	Assignees         []AssigneeResponse `json:"assignees,omitempty"`
	Labels            []LabelResponse    `json:"labels,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// AssignTaskRequest represents the request to attach a user to a task
type AssignTaskRequest struct {
	UserID uuid.UUID `json:"userId" binding:"required"`
	Role   string    `json:"role" binding:"omitempty,oneof=assignee reviewer watcher" example:"assignee"`
}

// AssigneeResponse represents a user attached to a task
type AssigneeResponse struct {
	UserID     uuid.UUID `json:"userId"`
	Username   string    `json:"username,omitempty"`
	Role       string    `json:"role" example:"assignee"`
	AssignedAt time.Time `json:"assignedAt"`
}

// AttachLabelRequest represents the request to put a label on a task
type AttachLabelRequest struct {
	LabelID uuid.UUID `json:"labelId" binding:"required"`
}

// ActivityResponse represents one entry in a task's activity log
type ActivityResponse struct {
	ActivityID uuid.UUID              `json:"activityId"`
	TaskID     uuid.UUID              `json:"taskId"`
	UserID     *uuid.UUID             `json:"userId,omitempty"`
	Action     string                 `json:"action" example:"status_changed"`
	OldValues  map[string]interface{} `json:"oldValues,omitempty"`
	NewValues  map[string]interface{} `json:"newValues,omitempty"`
	CreatedAt  time.Time              `json:"createdAt"`
}

// DashboardResponse lists the user's projects and the tasks assigned to them
type DashboardResponse struct {
	Projects      []ProjectResponse `json:"projects"`
	AssignedTasks []TaskResponse    `json:"assignedTasks"`
}
