package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"project-task-api/internal/domain"
)

// MemberRepository defines the interface for project membership data access
type MemberRepository interface {
	Create(ctx context.Context, member *domain.ProjectMember) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.ProjectMember, error)
	FindByProjectAndUser(ctx context.Context, projectID, userID uuid.UUID) (*domain.ProjectMember, error)
	FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectMember, error)
	FindNonOwnersByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectMember, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role domain.MemberRole) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// memberRepositoryImpl is the GORM implementation of MemberRepository
type memberRepositoryImpl struct {
	db *gorm.DB
}

// NewMemberRepository creates a new instance of MemberRepository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepositoryImpl{db: db}
}

// Create adds a member row
func (r *memberRepositoryImpl) Create(ctx context.Context, member *domain.ProjectMember) error {
	return r.db.WithContext(ctx).Omit("User").Create(member).Error
}

// FindByID finds a member by ID with the user loaded
func (r *memberRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.ProjectMember, error) {
	var member domain.ProjectMember
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", id).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// FindByProjectAndUser finds the membership of a user in a project
func (r *memberRepositoryImpl) FindByProjectAndUser(ctx context.Context, projectID, userID uuid.UUID) (*domain.ProjectMember, error) {
	var member domain.ProjectMember
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// FindByProjectID lists all members in join order
func (r *memberRepositoryImpl) FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectMember, error) {
	var members []*domain.ProjectMember
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("project_id = ?", projectID).
		Order("joined_at ASC, created_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// FindNonOwnersByProjectID lists every member except the owner, in join order
func (r *memberRepositoryImpl) FindNonOwnersByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectMember, error) {
	var members []*domain.ProjectMember
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("project_id = ? AND role <> ?", projectID, domain.MemberRoleOwner).
		Order("joined_at ASC, created_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// UpdateRole changes a member's role. It never touches the owner row.
func (r *memberRepositoryImpl) UpdateRole(ctx context.Context, id uuid.UUID, role domain.MemberRole) error {
	result := r.db.WithContext(ctx).
		Model(&domain.ProjectMember{}).
		Where("id = ? AND role <> ?", id, domain.MemberRoleOwner).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a non-owner member
func (r *memberRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND role <> ?", id, domain.MemberRoleOwner).
		Delete(&domain.ProjectMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
