package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateProjectRequest represents the request to create a new project
// @Description The requester becomes the project owner
type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required,max=100" example:"Sprint Plan"`
	Description string `json:"description" binding:"max=2000" example:"Work for the next two weeks"`
}

// UpdateProjectRequest represents the request to update a project
// @Description All fields are optional. newOwner is a member ID; empty means "Do not change".
type UpdateProjectRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100" example:"Sprint Plan v2"`
	Description *string `json:"description" binding:"omitempty,max=2000" example:"Updated description"`
	NewOwner    string  `json:"newOwner" example:"f47ac10b-58cc-4372-a567-0e02b2c3d479"`
}

// ProjectResponse represents the project response
type ProjectResponse struct {
	ProjectID   uuid.UUID `json:"projectId" example:"539167fb-b599-41ba-9ead-344a6d0b3a2f"`
	Name        string    `json:"name" example:"Sprint Plan"`
	Description string    `json:"description" example:"Work for the next two weeks"`
	OwnerID     uuid.UUID `json:"ownerId" example:"b2c3d4e5-f6a7-8901-bcde-f12345678901"`
	OwnerName   string    `json:"ownerName,omitempty" example:"alice"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProjectDetailResponse is a project with everything it owns
type ProjectDetailResponse struct {
	Project  ProjectResponse  `json:"project"`
	MyRole   string           `json:"myRole" example:"owner"`
	CanEdit  bool             `json:"canEdit"`
	Members  []MemberResponse `json:"members"`
	Statuses []StatusResponse `json:"statuses"`
	Labels   []LabelResponse  `json:"labels"`
	Tasks    []TaskResponse   `json:"tasks"`
}

// ChoiceResponse is one option of a select field
type ChoiceResponse struct {
	Value string `json:"value" example:""`
	Label string `json:"label" example:"Do not change"`
}

// ProjectEditFormResponse holds the current values and ownership transfer choices
type ProjectEditFormResponse struct {
	Project         ProjectResponse  `json:"project"`
	TransferChoices []ChoiceResponse `json:"transferChoices"`
}

// ProjectUpdateResponse is the updated project plus any messages produced on the way
type ProjectUpdateResponse struct {
	Project ProjectResponse `json:"project"`
	Notices []Notice        `json:"notices,omitempty"`
}
