package dto

import "github.com/google/uuid"

// CreateStatusRequest represents the request to add a workflow status
type CreateStatusRequest struct {
	Name  string `json:"name" binding:"required,max=50" example:"In Progress"`
	Order *int   `json:"order" binding:"required" example:"2"`
}

// StatusResponse represents a workflow status
type StatusResponse struct {
	StatusID uuid.UUID `json:"statusId"`
	Name     string    `json:"name" example:"In Progress"`
	Order    int       `json:"order" example:"2"`
}

// CreateLabelRequest represents the request to add a label; color defaults to #808080
type CreateLabelRequest struct {
	Name  string `json:"name" binding:"required,max=50" example:"bug"`
	Color string `json:"color" example:"#ff0000"`
}

// LabelResponse represents a label
type LabelResponse struct {
	LabelID uuid.UUID `json:"labelId"`
	Name    string    `json:"name" example:"bug"`
	Color   string    `json:"color" example:"#ff0000"`
}
