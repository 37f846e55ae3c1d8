package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"project-task-api/internal/domain"
)

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	CreateWithOwner(ctx context.Context, project *domain.Project) (*domain.ProjectMember, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	TransferOwnership(ctx context.Context, projectID, requesterID, newOwnerMemberID uuid.UUID) (*domain.ProjectMember, error)
	UpdateWithTransfer(ctx context.Context, project *domain.Project, requesterID, newOwnerMemberID uuid.UUID) (*domain.ProjectMember, error)
	Count(ctx context.Context) (int64, error)
}

// projectRepositoryImpl is the GORM implementation of ProjectRepository
type projectRepositoryImpl struct {
	db *gorm.DB
}

// NewProjectRepository creates a new instance of ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepositoryImpl{db: db}
}

// CreateWithOwner inserts the project and its owner-role member in one transaction.
// project.OwnerID must be set.
func (r *projectRepositoryImpl) CreateWithOwner(ctx context.Context, project *domain.Project) (*domain.ProjectMember, error) {
	owner := &domain.ProjectMember{
		UserID: project.OwnerID,
		Role:   domain.MemberRoleOwner,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(project).Error; err != nil {
			return err
		}
		owner.ProjectID = project.ID
		return tx.Omit(clause.Associations).Create(owner).Error
	})
	if err != nil {
		return nil, err
	}
	return owner, nil
}

// FindByID finds a project by ID with its owner loaded
func (r *projectRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var project domain.Project
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("id = ?", id).
		First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByUserID returns every project the user belongs to, newest first.
// The owner always has a member row, so one membership join covers both cases.
func (r *projectRepositoryImpl) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error) {
	var projects []*domain.Project
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("id IN (?)", r.db.Model(&domain.ProjectMember{}).Select("project_id").Where("user_id = ?", userID)).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Update saves the editable columns of a project
func (r *projectRepositoryImpl) Update(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).
		Model(project).
		Select("name", "description").
		Updates(project).Error
}

// Delete removes a project and everything it owns in one transaction
func (r *projectRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taskIDs := tx.Model(&domain.Task{}).Select("id").Where("project_id = ?", id)
		if err := deleteTaskChildren(tx, taskIDs); err != nil {
			return err
		}

		for _, model := range []interface{}{&domain.Task{}, &domain.Label{}, &domain.Status{}, &domain.ProjectMember{}} {
			if err := tx.Where("project_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}

		result := tx.Where("id = ?", id).Delete(&domain.Project{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// TransferOwnership moves the owner role to newOwnerMemberID.
// The project row and its member rows are locked for the duration of the transaction, so
// concurrent transfers on one project serialize. The previous owner becomes admin.
// Returns ErrNotProjectOwner, gorm.ErrRecordNotFound or ErrAlreadyOwner without writing anything.
func (r *projectRepositoryImpl) TransferOwnership(ctx context.Context, projectID, requesterID, newOwnerMemberID uuid.UUID) (*domain.ProjectMember, error) {
	var target *domain.ProjectMember
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		target, err = transferOwnershipTx(tx, projectID, requesterID, newOwnerMemberID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyOwner) {
			return target, err
		}
		return nil, err
	}
	return target, nil
}

// UpdateWithTransfer saves the editable columns of project and moves the owner role in one
// transaction. A failed transfer rolls the edit back. ErrAlreadyOwner keeps the edit.
func (r *projectRepositoryImpl) UpdateWithTransfer(ctx context.Context, project *domain.Project, requesterID, newOwnerMemberID uuid.UUID) (*domain.ProjectMember, error) {
	var target *domain.ProjectMember
	alreadyOwner := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		target, err = transferOwnershipTx(tx, project.ID, requesterID, newOwnerMemberID)
		switch {
		case errors.Is(err, ErrAlreadyOwner):
			alreadyOwner = true
		case err != nil:
			return err
		}
		return tx.Model(project).
			Select("name", "description").
			Updates(project).Error
	})
	if err != nil {
		return nil, err
	}
	if alreadyOwner {
		return target, ErrAlreadyOwner
	}
	return target, nil
}

// transferOwnershipTx runs the locked owner swap inside tx
func transferOwnershipTx(tx *gorm.DB, projectID, requesterID, newOwnerMemberID uuid.UUID) (*domain.ProjectMember, error) {
	var project domain.Project
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", projectID).
		First(&project).Error; err != nil {
		return nil, err
	}

	var members []domain.ProjectMember
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("project_id = ?", projectID).
		Order("joined_at ASC, created_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}

	var current, target *domain.ProjectMember
	for i := range members {
		if members[i].Role == domain.MemberRoleOwner {
			current = &members[i]
		}
		if members[i].ID == newOwnerMemberID {
			target = &members[i]
		}
	}

	if current == nil || current.UserID != requesterID {
		return nil, ErrNotProjectOwner
	}
	if target == nil {
		return nil, gorm.ErrRecordNotFound
	}
	if target.Role == domain.MemberRoleOwner {
		return target, ErrAlreadyOwner
	}

	if err := tx.Model(&domain.ProjectMember{}).
		Where("id = ?", current.ID).
		Update("role", domain.MemberRoleAdmin).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&domain.ProjectMember{}).
		Where("id = ?", target.ID).
		Update("role", domain.MemberRoleOwner).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&domain.Project{}).
		Where("id = ?", projectID).
		Update("owner_id", target.UserID).Error; err != nil {
		return nil, err
	}

	target.Role = domain.MemberRoleOwner
	return target, nil
}

// Count returns the number of projects
func (r *projectRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Project{}).Count(&count).Error
	return count, err
}

// deleteTaskChildren removes every row owned by the tasks selected by taskIDs
func deleteTaskChildren(tx *gorm.DB, taskIDs interface{}) error {
	children := []interface{}{
		&domain.Assignee{},
		&domain.Comment{},
		&domain.Attachment{},
		&domain.Activity{},
		&domain.TaskLabel{},
	}
	for _, model := range children {
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
