package models

import (
	"time"

	"gorm.io/gorm"
)

type GlobalRole string

const (
	GlobalRoleAdmin GlobalRole = "admin"
	GlobalRoleUser  GlobalRole = "user"
)

type User struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Username  string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Email     string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Role      GlobalRole     `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	FirstName string         `gorm:"type:varchar(255)" json:"first_name,omitempty"`
	LastName  string         `gorm:"type:varchar(255)" json:"last_name,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Credential    *UserCredential `gorm:"foreignKey:UserID" json:"-"`
	Memberships   []ProjectMember `gorm:"foreignKey:UserID" json:"-"`
	AssignedTasks []Task          `gorm:"foreignKey:AssigneeID" json:"-"`
}
