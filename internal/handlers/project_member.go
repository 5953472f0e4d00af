package handlers

import (
	"net/http"
	"strconv"

	"github.com/aonuma/project-management-api/internal/dto"
	apierrors "github.com/aonuma/project-management-api/internal/errors"
	"github.com/aonuma/project-management-api/internal/models"
	"github.com/aonuma/project-management-api/internal/services"
	"github.com/gin-gonic/gin"
)

// ProjectMemberHandler coordinates project membership endpoints.
type ProjectMemberHandler struct {
	projectService *services.ProjectService
}

// NewProjectMemberHandler creates a new ProjectMemberHandler.
func NewProjectMemberHandler(projectService *services.ProjectService) *ProjectMemberHandler {
	return &ProjectMemberHandler{
		projectService: projectService,
	}
}

func parseMemberParams(c *gin.Context) (projectID, userID uint64, ok bool) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return 0, 0, false
	}

	userID, err = strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return 0, 0, false
	}

	return projectID, userID, true
}

// ListMembers returns the project's memberships with their user rows.
func (h *ProjectMemberHandler) ListMembers(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	members, err := h.projectService.ListMembers(projectID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	memberDTOs := make([]dto.ProjectMemberDTO, len(members))
	for i, member := range members {
		memberDTOs[i] = dto.ToProjectMemberDTO(member)
	}

	c.JSON(http.StatusOK, memberDTOs)
}

// AddMember adds a user to the project with the caller-supplied role.
func (h *ProjectMemberHandler) AddMember(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	type AddMemberRequest struct {
		UserID uint64 `json:"user_id" binding:"required"`
		Role   string `json:"role" binding:"required"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.projectService.AddMember(services.AddMemberInput{
		ProjectID: projectID,
		UserID:    req.UserID,
		Role:      models.ProjectRole(req.Role),
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectMemberDTO(*member))
}

// UpdateMember changes the role on an existing membership.
func (h *ProjectMemberHandler) UpdateMember(c *gin.Context) {
	projectID, userID, ok := parseMemberParams(c)
	if !ok {
		return
	}

	type UpdateMemberRequest struct {
		Role string `json:"role" binding:"required"`
	}

	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.projectService.UpdateMemberRole(projectID, userID, models.ProjectRole(req.Role)); err != nil {
		respondProjectError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RemoveMember deletes a membership, revoking the user's access.
func (h *ProjectMemberHandler) RemoveMember(c *gin.Context) {
	projectID, userID, ok := parseMemberParams(c)
	if !ok {
		return
	}

	if err := h.projectService.RemoveMember(projectID, userID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
