package domain

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TaskPriority ranks a task from Highest (1) to NotAPriority (6)
type TaskPriority int

const (
	PriorityHighest TaskPriority = iota + 1
	PriorityHigh
	PriorityMedium
	PriorityLow
	PriorityLowest
	PriorityNone
)

// DefaultTaskPriority is applied when a task is created without a priority
const DefaultTaskPriority = PriorityMedium

var priorityLabels = map[TaskPriority]string{
	PriorityHighest: "Highest",
	PriorityHigh:    "High",
	PriorityMedium:  "Medium",
	PriorityLow:     "Low",
	PriorityLowest:  "Lowest",
	PriorityNone:    "Not a Priority",
}

// ParseTaskPriority validates a numeric priority
func ParseTaskPriority(v int) (TaskPriority, error) {
	p := TaskPriority(v)
	if !p.IsValid() {
		return 0, fmt.Errorf("priority must be between %d and %d, got %d", PriorityHighest, PriorityNone, v)
	}
	return p, nil
}

// IsValid reports whether p is one of the six defined levels
func (p TaskPriority) IsValid() bool {
	return p >= PriorityHighest && p <= PriorityNone
}

// String returns the display label
func (p TaskPriority) String() string {
	if label, ok := priorityLabels[p]; ok {
		return label
	}
	return fmt.Sprintf("TaskPriority(%d)", int(p))
}

// Value implements driver.Valuer
func (p TaskPriority) Value() (driver.Value, error) {
	if !p.IsValid() {
		return nil, fmt.Errorf("invalid task priority: %d", int(p))
	}
	return int64(p), nil
}

// Scan implements sql.Scanner
func (p *TaskPriority) Scan(value interface{}) error {
	var raw int64
	switch v := value.(type) {
	case int64:
		raw = v
	case int32:
		raw = int64(v)
	case int:
		raw = int64(v)
	default:
		return fmt.Errorf("unsupported task priority type %T", value)
	}
	parsed, err := ParseTaskPriority(int(raw))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Task is a unit of work inside a project
type Task struct {
	BaseModel
	ProjectID         uuid.UUID      `gorm:"type:uuid;not null;index:idx_tasks_project_id" json:"project_id"`
	CreatorID         *uuid.UUID     `gorm:"type:uuid;index:idx_tasks_creator_id" json:"creator_id,omitempty"`
	StatusID          *uuid.UUID     `gorm:"type:uuid;index:idx_tasks_status_id" json:"status_id,omitempty"`
	Title             string         `gorm:"type:varchar(200);not null" json:"title"`
	Description       string         `gorm:"type:text" json:"description"`
	Order             int            `gorm:"column:task_order;not null;default:0" json:"order"`
	Priority          TaskPriority   `gorm:"type:smallint;not null;default:3" json:"priority"`
	DueDate           *time.Time     `json:"due_date,omitempty"`
	EstimatedDuration *time.Duration `gorm:"type:bigint" json:"estimated_duration,omitempty"`
	ActualDuration    *time.Duration `gorm:"type:bigint" json:"actual_duration,omitempty"`
	Creator           *User          `gorm:"foreignKey:CreatorID;constraint:OnDelete:SET NULL" json:"creator,omitempty"`
	Status            *Status        `gorm:"foreignKey:StatusID;constraint:OnDelete:SET NULL" json:"status,omitempty"`
	Assignees         []Assignee     `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"assignees,omitempty"`
	Comments          []Comment      `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	Attachments       []Attachment   `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"attachments,omitempty"`
	Activities        []Activity     `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"activities,omitempty"`
	TaskLabels        []TaskLabel    `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"task_labels,omitempty"`
}

// TableName specifies the table name for Task
func (Task) TableName() string {
	return "tasks"
}
