package repository

import (
	"time"

	"github.com/aonuma/project-management-api/internal/models"
	"gorm.io/gorm"
)

// GormMemberRepository is a GORM implementation of MemberRepository
type GormMemberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &GormMemberRepository{db: db}
}

// Add inserts a membership row
func (r *GormMemberRepository) Add(member *models.ProjectMember) error {
	return r.db.Create(member).Error
}

// Find finds a specific membership
func (r *GormMemberRepository) Find(projectID, userID uint64) (*models.ProjectMember, error) {
	var member models.ProjectMember
	if err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// List lists all memberships of a project with their user rows
func (r *GormMemberRepository) List(projectID uint64) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	if err := r.db.Preload("User").
		Where("project_id = ?", projectID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ListByUserID lists all memberships of a user with their project rows
func (r *GormMemberRepository) ListByUserID(userID uint64) ([]models.ProjectMember, error) {
	var memberships []models.ProjectMember
	if err := r.db.Preload("Project").
		Where("user_id = ?", userID).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// UpdateRole updates the role of every membership row for the pair. The
// updated_at stamp is set explicitly because column-level updates bypass
// GORM's save-path tracking.
func (r *GormMemberRepository) UpdateRole(projectID, userID uint64, role models.ProjectRole) error {
	return r.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Updates(map[string]interface{}{
			"role":       role,
			"updated_at": time.Now(),
		}).Error
}

// Remove deletes every membership row for the pair
func (r *GormMemberRepository) Remove(projectID, userID uint64) error {
	return r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{}).Error
}

// CheckMember reports whether at least one membership row exists for the pair,
// any role. Counting instead of taking the first row keeps the predicate
// correct if duplicate pairs ever slip in.
func (r *GormMemberRepository) CheckMember(userID, projectID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.ProjectMember{}).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CheckAdmin reports whether at least one membership row exists for the pair
// with role "admin"
func (r *GormMemberRepository) CheckAdmin(userID, projectID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.ProjectMember{}).
		Where("user_id = ? AND project_id = ? AND role = ?", userID, projectID, models.ProjectRoleAdmin).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
