package domain

import (
	"regexp"

	"github.com/google/uuid"
)

// DefaultLabelColor is used when a label is created without a colour
const DefaultLabelColor = "#808080"

var labelColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// IsValidLabelColor reports whether c is a #RRGGBB colour
func IsValidLabelColor(c string) bool {
	return labelColorPattern.MatchString(c)
}

// Label is a project-scoped tag; names are unique per project
type Label struct {
	BaseModel
	ProjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_labels_project_name" json:"project_id"`
	Name      string    `gorm:"type:varchar(50);not null;uniqueIndex:uq_labels_project_name" json:"name"`
	Color     string    `gorm:"type:varchar(7);not null;default:'#808080'" json:"color"`
}

// TaskLabel attaches a label to a task
type TaskLabel struct {
	BaseModel
	TaskID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_task_labels_task_label" json:"task_id"`
	LabelID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_task_labels_task_label" json:"label_id"`
	Label   *Label    `gorm:"foreignKey:LabelID;constraint:OnDelete:CASCADE" json:"label,omitempty"`
}

// TableName specifies the table name for Label
func (Label) TableName() string {
	return "labels"
}

// TableName specifies the table name for TaskLabel
func (TaskLabel) TableName() string {
	return "task_labels"
}
