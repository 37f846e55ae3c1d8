package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	ProjectNameMinLength = 2
	ProjectNameMaxLength = 100
)

// Project is owned by exactly one user; that user is also the project's owner-role member
type Project struct {
	BaseModel
	OwnerID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_projects_owner_id" json:"owner_id"`
	Name        string          `gorm:"type:varchar(100);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Owner       *User           `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Members     []ProjectMember `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
	Statuses    []Status        `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"statuses,omitempty"`
	Labels      []Label         `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"labels,omitempty"`
	Tasks       []Task          `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
}

// MemberRole is the closed set of roles a project member can hold
type MemberRole string

const (
	MemberRoleOwner  MemberRole = "owner"
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleMember MemberRole = "member"
	MemberRoleViewer MemberRole = "viewer"
)

// ParseMemberRole converts raw input into a MemberRole
func ParseMemberRole(s string) (MemberRole, error) {
	role := MemberRole(strings.ToLower(strings.TrimSpace(s)))
	if !role.IsValid() {
		return "", fmt.Errorf("invalid member role: %q", s)
	}
	return role, nil
}

// IsValid reports whether r is one of the defined roles
func (r MemberRole) IsValid() bool {
	switch r {
	case MemberRoleOwner, MemberRoleAdmin, MemberRoleMember, MemberRoleViewer:
		return true
	}
	return false
}

// Value implements driver.Valuer so unknown roles never reach the store
func (r MemberRole) Value() (driver.Value, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("invalid member role: %q", string(r))
	}
	return string(r), nil
}

// Scan implements sql.Scanner
func (r *MemberRole) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("unsupported member role type %T", value)
	}
	role, err := ParseMemberRole(raw)
	if err != nil {
		return err
	}
	*r = role
	return nil
}

// CanManageMembers reports whether the role may add, remove or re-role members
func (r MemberRole) CanManageMembers() bool {
	return r == MemberRoleOwner || r == MemberRoleAdmin
}

// CanWrite reports whether the role may create or change tasks and their children
func (r MemberRole) CanWrite() bool {
	return r.IsValid() && r != MemberRoleViewer
}

// ProjectMember associates a user with a project through a role
type ProjectMember struct {
	BaseModel
	ProjectID uuid.UUID  `gorm:"type:uuid;not null;index:idx_project_members_project_id;uniqueIndex:uq_project_members_project_user" json:"project_id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_project_members_user_id;uniqueIndex:uq_project_members_project_user" json:"user_id"`
	Role      MemberRole `gorm:"type:varchar(20);not null;index:idx_project_members_role" json:"role"`
	JoinedAt  time.Time  `gorm:"not null;autoCreateTime" json:"joined_at"`
	User      *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// DisplayName renders the member as "username - project (role)"
func (m *ProjectMember) DisplayName(projectName string) string {
	username := ""
	if m.User != nil {
		username = m.User.Username
	}
	return fmt.Sprintf("%s - %s (%s)", username, projectName, m.Role)
}

// TableName specifies the table name for Project
func (Project) TableName() string {
	return "projects"
}

// TableName specifies the table name for ProjectMember
func (ProjectMember) TableName() string {
	return "project_members"
}
