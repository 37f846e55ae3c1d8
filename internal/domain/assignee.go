package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AssigneeRole describes how a user is attached to a task
type AssigneeRole string

const (
	AssigneeRoleAssignee AssigneeRole = "assignee"
	AssigneeRoleReviewer AssigneeRole = "reviewer"
	AssigneeRoleWatcher  AssigneeRole = "watcher"
)

// ParseAssigneeRole converts raw input into an AssigneeRole; empty input means assignee
func ParseAssigneeRole(s string) (AssigneeRole, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return AssigneeRoleAssignee, nil
	}
	switch r := AssigneeRole(s); r {
	case AssigneeRoleAssignee, AssigneeRoleReviewer, AssigneeRoleWatcher:
		return r, nil
	}
	return "", fmt.Errorf("invalid assignee role: %q", s)
}

// Assignee links a user to a task; unique per (task, user)
type Assignee struct {
	BaseModel
	TaskID     uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:uq_assignees_task_user" json:"task_id"`
	UserID     uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:uq_assignees_task_user;index:idx_assignees_user_id" json:"user_id"`
	Role       AssigneeRole `gorm:"type:varchar(20);not null;default:'assignee'" json:"role"`
	AssignedAt time.Time    `gorm:"not null;autoCreateTime" json:"assigned_at"`
	User       *User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// TableName specifies the table name for Assignee
func (Assignee) TableName() string {
	return "assignees"
}
