package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	TaskTypeNormal = "normal"
	// TaskTypePublic marks tasks visible to non-admin project members.
	TaskTypePublic = "public"

	// TaskStatusDone marks tasks eligible for the daily cleanup job.
	TaskStatusDone = "done"
)

type Task struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Description  string         `gorm:"type:text;not null" json:"description"`
	Type         string         `gorm:"type:varchar(20);not null;default:'normal'" json:"type"`
	Status       string         `gorm:"type:varchar(20)" json:"status,omitempty"`
	AssigneeID   *uint64        `json:"assignee_id,omitempty"`
	ParentTaskID *uint64        `json:"parent_task_id,omitempty"`
	ProjectID    uint64         `gorm:"index;not null" json:"project_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Project    Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Assignee   *User   `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	ParentTask *Task   `gorm:"foreignKey:ParentTaskID" json:"parent_task,omitempty"`
}
