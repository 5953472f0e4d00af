package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aonuma/project-management-api/internal/models"
	"github.com/aonuma/project-management-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrTaskNameRequired   = errors.New("task name is required")
	ErrTaskDescRequired   = errors.New("task description is required")
	ErrTaskWrongProject   = errors.New("task does not belong to this project")
	ErrParentTaskNotFound = errors.New("parent task not found")
	ErrAssigneeNotFound   = errors.New("assignee not found")
)

// TaskService handles task business logic scoped to projects. Read and
// bulk-mutation paths narrow the caller's filter to public tasks whenever the
// caller is not an admin of the project, whatever the filter asked for.
type TaskService struct {
	taskRepo   repository.TaskRepository
	memberRepo repository.MemberRepository
	userRepo   repository.UserRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, memberRepo repository.MemberRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo:   taskRepo,
		memberRepo: memberRepo,
		userRepo:   userRepo,
	}
}

// narrowForActor intersects the filter with type = "public" unless the actor
// is an admin of the project.
func (s *TaskService) narrowForActor(actorID uint64, filter repository.TaskFilter) (repository.TaskFilter, error) {
	isAdmin, err := s.memberRepo.CheckAdmin(actorID, filter.ProjectID)
	if err != nil {
		return filter, fmt.Errorf("failed to verify membership: %w", err)
	}

	if !isAdmin {
		public := models.TaskTypePublic
		filter.Type = &public
	}

	return filter, nil
}

// ListTasksInput represents filters for listing a project's tasks.
type ListTasksInput struct {
	ProjectID  uint64
	ActorID    uint64
	Type       *string
	Status     *string
	AssigneeID *uint64
	Page       int
	PageSize   int
}

// ListTasks returns the project's tasks visible to the actor.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		ProjectID:  input.ProjectID,
		Type:       input.Type,
		Status:     input.Status,
		AssigneeID: input.AssigneeID,
		Page:       input.Page,
		PageSize:   input.PageSize,
	}

	filter, err := s.narrowForActor(input.ActorID, filter)
	if err != nil {
		return nil, 0, err
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	ProjectID    uint64
	Name         string
	Description  string
	Type         string
	Status       string
	AssigneeID   *uint64
	ParentTaskID *uint64
}

// CreateTask creates a task under a project.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrTaskNameRequired
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, ErrTaskDescRequired
	}

	taskType := input.Type
	if taskType == "" {
		taskType = models.TaskTypeNormal
	}

	if input.AssigneeID != nil {
		if _, err := s.userRepo.FindByID(*input.AssigneeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAssigneeNotFound
			}
			return nil, fmt.Errorf("failed to find assignee: %w", err)
		}
	}

	if input.ParentTaskID != nil {
		if _, err := s.taskRepo.FindByID(*input.ParentTaskID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentTaskNotFound
			}
			return nil, fmt.Errorf("failed to find parent task: %w", err)
		}
	}

	task := &models.Task{
		ProjectID:    input.ProjectID,
		Name:         input.Name,
		Description:  input.Description,
		Type:         taskType,
		Status:       input.Status,
		AssigneeID:   input.AssigneeID,
		ParentTaskID: input.ParentTaskID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// GetTask returns a single task of the project with its relations. Non-admins
// can only fetch public tasks.
func (s *TaskService) GetTask(projectID, taskID, actorID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Assignee", "ParentTask")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.ProjectID != projectID {
		return nil, ErrTaskWrongProject
	}

	isAdmin, err := s.memberRepo.CheckAdmin(actorID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}
	if !isAdmin && task.Type != models.TaskTypePublic {
		return nil, ErrTaskNotFound
	}

	return task, nil
}

// PatchTasksInput represents a bulk patch over a project's tasks.
type PatchTasksInput struct {
	ProjectID uint64
	ActorID   uint64
	Filter    repository.TaskFilter
	Patch     repository.TaskPatch
}

// PatchTasks bulk-updates the tasks matching the filter and returns the
// affected count.
func (s *TaskService) PatchTasks(input PatchTasksInput) (int64, error) {
	filter := input.Filter
	filter.ProjectID = input.ProjectID

	filter, err := s.narrowForActor(input.ActorID, filter)
	if err != nil {
		return 0, err
	}

	count, err := s.taskRepo.Patch(filter, input.Patch)
	if err != nil {
		return 0, fmt.Errorf("failed to patch tasks: %w", err)
	}

	return count, nil
}

// DeleteTasks bulk-deletes the tasks matching the filter and returns the
// affected count.
func (s *TaskService) DeleteTasks(projectID, actorID uint64, filter repository.TaskFilter) (int64, error) {
	filter.ProjectID = projectID

	filter, err := s.narrowForActor(actorID, filter)
	if err != nil {
		return 0, err
	}

	count, err := s.taskRepo.DeleteWhere(filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete tasks: %w", err)
	}

	return count, nil
}

// CleanupDoneTasks deletes every task with status "done", across all
// projects. The daily scheduler is its only caller.
func (s *TaskService) CleanupDoneTasks() (int64, error) {
	count, err := s.taskRepo.DeleteDone()
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup done tasks: %w", err)
	}
	return count, nil
}
