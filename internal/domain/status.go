package domain

import "github.com/google/uuid"

// Status is a workflow column of a project; Order positions it and is unique per project
type Status struct {
	BaseModel
	ProjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_statuses_project_order,priority:1" json:"project_id"`
	Name      string    `gorm:"type:varchar(50);not null" json:"name"`
	Order     int       `gorm:"column:display_order;not null;uniqueIndex:uq_statuses_project_order,priority:2" json:"order"`
}

// TableName specifies the table name for Status
func (Status) TableName() string {
	return "statuses"
}
