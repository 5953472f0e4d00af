package models

import "time"

type ProjectRole string

const (
	ProjectRoleAdmin  ProjectRole = "admin"
	ProjectRoleMember ProjectRole = "member"
)

// ProjectMember is the join row between users and projects. It is the single
// source of truth for project access: deleting the row revokes access even
// while the user and project rows remain. The (user_id, project_id) pair
// carries no unique constraint; callers check membership before inserting and
// the membership predicates tolerate duplicates.
type ProjectMember struct {
	ID        uint64      `gorm:"primarykey" json:"id"`
	UserID    uint64      `gorm:"index;not null" json:"user_id"`
	ProjectID uint64      `gorm:"index;not null" json:"project_id"`
	Role      ProjectRole `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`

	// Relations
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}
