package dto

import (
	"time"

	"github.com/google/uuid"
)

// AddMemberRequest represents the request to add a user to a project
type AddMemberRequest struct {
	UserID uuid.UUID `json:"userId" binding:"required" example:"b2c3d4e5-f6a7-8901-bcde-f12345678901"`
	Role   string    `json:"role" binding:"omitempty,oneof=admin member viewer" example:"member"`
}

// UpdateMemberRoleRequest represents the request to change a member's role
type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin member viewer" example:"admin"`
}

// TransferOwnershipRequest names the member who becomes owner
type TransferOwnershipRequest struct {
	MemberID uuid.UUID `json:"memberId" binding:"required" example:"f47ac10b-58cc-4372-a567-0e02b2c3d479"`
}

// MemberResponse represents a project member
type MemberResponse struct {
	MemberID  uuid.UUID `json:"memberId"`
	ProjectID uuid.UUID `json:"projectId"`
	UserID    uuid.UUID `json:"userId"`
	Username  string    `json:"username,omitempty"`
	Role      string    `json:"role" example:"member"`
	JoinedAt  time.Time `json:"joinedAt"`
}

// TransferOwnershipResponse reports the outcome of an ownership transfer
type TransferOwnershipResponse struct {
	Owner   MemberResponse `json:"owner"`
	Notices []Notice       `json:"notices,omitempty"`
}
