package domain

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ActivityAction is the closed set of events recorded on a task
type ActivityAction string

const (
	ActivityCreated       ActivityAction = "created"
	ActivityUpdated       ActivityAction = "updated"
	ActivityDeleted       ActivityAction = "deleted"
	ActivityStatusChanged ActivityAction = "status_changed"
	ActivityAssigned      ActivityAction = "assigned"
)

// Activity is an audit entry for a task
type Activity struct {
	BaseModel
	TaskID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_activities_task_id" json:"task_id"`
	UserID    *uuid.UUID     `gorm:"type:uuid;index:idx_activities_user_id" json:"user_id,omitempty"`
	Action    ActivityAction `gorm:"type:varchar(20);not null" json:"action"`
	OldValues datatypes.JSON `json:"old_values,omitempty"`
	NewValues datatypes.JSON `json:"new_values,omitempty"`
}

// TableName specifies the table name for Activity
func (Activity) TableName() string {
	return "activities"
}
