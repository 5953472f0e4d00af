package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aonuma/project-management-api/internal/dto"
	apierrors "github.com/aonuma/project-management-api/internal/errors"
	"github.com/aonuma/project-management-api/internal/middleware"
	"github.com/aonuma/project-management-api/internal/repository"
	"github.com/aonuma/project-management-api/internal/services"
	"github.com/aonuma/project-management-api/internal/utils"
	"github.com/gin-gonic/gin"
)

// ProjectTaskHandler coordinates the task endpoints nested under a project.
type ProjectTaskHandler struct {
	taskService *services.TaskService
}

// NewProjectTaskHandler creates a new ProjectTaskHandler.
func NewProjectTaskHandler(taskService *services.TaskService) *ProjectTaskHandler {
	return &ProjectTaskHandler{
		taskService: taskService,
	}
}

// taskFilterFromQuery reads the optional task filter from query parameters.
func taskFilterFromQuery(c *gin.Context) repository.TaskFilter {
	var filter repository.TaskFilter

	if v := c.Query("type"); v != "" {
		filter.Type = &v
	}
	if v := c.Query("status"); v != "" {
		filter.Status = &v
	}
	if v := c.Query("assignee_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			filter.AssigneeID = &id
		}
	}

	return filter
}

// ListTasks returns the project's tasks visible to the caller.
func (h *ProjectTaskHandler) ListTasks(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	filter := taskFilterFromQuery(c)
	params := utils.GetPaginationParams(c)

	tasks, total, err := h.taskService.ListTasks(services.ListTasksInput{
		ProjectID:  projectID,
		ActorID:    principal.ID,
		Type:       filter.Type,
		Status:     filter.Status,
		AssigneeID: filter.AssigneeID,
		Page:       params.Page,
		PageSize:   params.PageSize,
	})
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.TaskListResponse{
		Tasks:      dto.ToTaskDTOs(tasks),
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalCount: total,
	})
}

// CreateTask creates a task under the project.
func (h *ProjectTaskHandler) CreateTask(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	type CreateTaskRequest struct {
		Name         string  `json:"name" binding:"required"`
		Description  string  `json:"description" binding:"required"`
		Type         string  `json:"type"`
		Status       string  `json:"status"`
		AssigneeID   *uint64 `json:"assignee_id"`
		ParentTaskID *uint64 `json:"parent_task_id"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		ProjectID:    projectID,
		Name:         req.Name,
		Description:  req.Description,
		Type:         req.Type,
		Status:       req.Status,
		AssigneeID:   req.AssigneeID,
		ParentTaskID: req.ParentTaskID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns a single task with its assignee and parent.
func (h *ProjectTaskHandler) GetTask(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("task_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	task, err := h.taskService.GetTask(projectID, taskID, principal.ID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// PatchTasks bulk-updates the tasks matching the filter.
func (h *ProjectTaskHandler) PatchTasks(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	type PatchTasksRequest struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Type        *string `json:"type"`
		Status      *string `json:"status"`
		AssigneeID  *uint64 `json:"assignee_id"`
	}

	var req PatchTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	count, err := h.taskService.PatchTasks(services.PatchTasksInput{
		ProjectID: projectID,
		ActorID:   principal.ID,
		Filter:    taskFilterFromQuery(c),
		Patch: repository.TaskPatch{
			Name:        req.Name,
			Description: req.Description,
			Type:        req.Type,
			Status:      req.Status,
			AssigneeID:  req.AssigneeID,
		},
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CountResponse{Count: count})
}

// DeleteTasks bulk-deletes the tasks matching the filter.
func (h *ProjectTaskHandler) DeleteTasks(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	count, err := h.taskService.DeleteTasks(projectID, principal.ID, taskFilterFromQuery(c))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CountResponse{Count: count})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrTaskWrongProject),
		errors.Is(err, services.ErrParentTaskNotFound),
		errors.Is(err, services.ErrAssigneeNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTaskNameRequired),
		errors.Is(err, services.ErrTaskDescRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
