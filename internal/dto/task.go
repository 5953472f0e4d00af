package dto

import (
	"time"

	"github.com/aonuma/project-management-api/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Type         string    `json:"type"`
	Status       string    `json:"status,omitempty"`
	AssigneeID   *uint64   `json:"assignee_id,omitempty"`
	ParentTaskID *uint64   `json:"parent_task_id,omitempty"`
	ProjectID    uint64    `json:"project_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Assignee     *UserDTO  `json:"assignee,omitempty"`
	ParentTask   *TaskDTO  `json:"parent_task,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
}

// CountResponse reports how many rows a bulk operation touched
type CountResponse struct {
	Count int64 `json:"count"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:           task.ID,
		Name:         task.Name,
		Description:  task.Description,
		Type:         task.Type,
		Status:       task.Status,
		AssigneeID:   task.AssigneeID,
		ParentTaskID: task.ParentTaskID,
		ProjectID:    task.ProjectID,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}

	// Include assignee if preloaded
	if task.Assignee != nil && task.Assignee.ID != 0 {
		assignee := ToUserDTO(*task.Assignee)
		dto.Assignee = &assignee
	}

	// Include parent task if preloaded
	if task.ParentTask != nil && task.ParentTask.ID != 0 {
		parent := ToTaskDTO(*task.ParentTask)
		dto.ParentTask = &parent
	}

	return dto
}

// ToTaskDTOs converts a slice of Task models
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}
