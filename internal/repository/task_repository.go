package repository

import (
	"time"

	"github.com/aonuma/project-management-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

func applyTaskFilter(query *gorm.DB, filter TaskFilter) *gorm.DB {
	query = query.Where("tasks.project_id = ?", filter.ProjectID)

	if filter.Type != nil {
		query = query.Where("tasks.type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.AssigneeID != nil {
		query = query.Where("tasks.assignee_id = ?", *filter.AssigneeID)
	}

	return query
}

// List retrieves tasks matching the filter
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := applyTaskFilter(r.db.Model(&models.Task{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("tasks.created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		listQuery = listQuery.Offset(offset).Limit(filter.PageSize)
	}

	if err := listQuery.Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Patch bulk-updates tasks matching the filter and returns the affected count.
// The updated_at stamp is set unconditionally, whatever fields the patch
// carries.
func (r *GormTaskRepository) Patch(filter TaskFilter, patch TaskPatch) (int64, error) {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Type != nil {
		updates["type"] = *patch.Type
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.AssigneeID != nil {
		updates["assignee_id"] = *patch.AssigneeID
	}

	result := applyTaskFilter(r.db.Model(&models.Task{}), filter).Updates(updates)
	return result.RowsAffected, result.Error
}

// DeleteWhere bulk-deletes tasks matching the filter and returns the affected count
func (r *GormTaskRepository) DeleteWhere(filter TaskFilter) (int64, error) {
	result := applyTaskFilter(r.db.Model(&models.Task{}), filter).Delete(&models.Task{})
	return result.RowsAffected, result.Error
}

// DeleteDone deletes all tasks with status "done" across all projects
func (r *GormTaskRepository) DeleteDone() (int64, error) {
	result := r.db.Where("status = ?", models.TaskStatusDone).Delete(&models.Task{})
	return result.RowsAffected, result.Error
}
