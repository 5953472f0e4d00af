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
	ErrProjectNotFound    = errors.New("project not found")
	ErrInvalidProjectName = errors.New("project name cannot be empty")
	ErrAlreadyMember      = errors.New("user is already a member of this project")
	ErrMemberNotFound     = errors.New("user is not a member of this project")
	ErrCannotRemoveAdmin  = errors.New("admin cannot be removed from project")

	// ErrOwnerMembershipFailed reports the invariant gap where the project row
	// was written but the creator's admin membership was not. The project
	// exists without an admin; nothing is rolled back.
	ErrOwnerMembershipFailed = errors.New("project created but admin membership failed")
)

// ProjectService provides business logic for projects and their memberships.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	memberRepo  repository.MemberRepository
	userRepo    repository.UserRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, memberRepo repository.MemberRepository, userRepo repository.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		memberRepo:  memberRepo,
		userRepo:    userRepo,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Description string
	CreatorID   uint64
}

// CreateProject creates a project and then the creator's admin membership as a
// second write. The two writes are not atomic: when the membership insert
// fails the project remains and the caller receives ErrOwnerMembershipFailed
// wrapping the storage error.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidProjectName
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	member := &models.ProjectMember{
		UserID:    input.CreatorID,
		ProjectID: project.ID,
		Role:      models.ProjectRoleAdmin,
	}

	if err := s.memberRepo.Add(member); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOwnerMembershipFailed, err)
	}

	return project, nil
}

// ListProjects returns every project.
func (s *ProjectService) ListProjects() ([]models.Project, error) {
	projects, err := s.projectRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// ListProjectsForUser returns the projects reachable through the user's
// memberships.
func (s *ProjectService) ListProjectsForUser(userID uint64) ([]models.Project, error) {
	projects, err := s.projectRepo.ListByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject retrieves a project by ID.
func (s *ProjectService) GetProject(id uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// UpdateProjectInput represents partial updates to a project.
type UpdateProjectInput struct {
	Name        *string
	Description *string
}

// UpdateProject updates a project's name and description.
func (s *ProjectService) UpdateProject(id uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.GetProject(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrInvalidProjectName
		}
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes a project together with its tasks and memberships.
func (s *ProjectService) DeleteProject(id uint64) error {
	if _, err := s.GetProject(id); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

// ListMembers returns the memberships of a project with their user rows.
func (s *ProjectService) ListMembers(projectID uint64) ([]models.ProjectMember, error) {
	if _, err := s.GetProject(projectID); err != nil {
		return nil, err
	}

	members, err := s.memberRepo.List(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project members: %w", err)
	}
	return members, nil
}

// AddMemberInput represents parameters to add a project member.
type AddMemberInput struct {
	ProjectID uint64
	UserID    uint64
	Role      models.ProjectRole
}

// AddMember inserts a membership with the caller-supplied role. Adding a user
// who is already a member is a conflict; the check-then-insert pair is not
// transactional, so a concurrent add can still produce duplicates, which the
// membership predicates tolerate.
func (s *ProjectService) AddMember(input AddMemberInput) (*models.ProjectMember, error) {
	if _, err := s.GetProject(input.ProjectID); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByID(input.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	isMember, err := s.memberRepo.CheckMember(input.UserID, input.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}
	if isMember {
		return nil, ErrAlreadyMember
	}

	member := &models.ProjectMember{
		UserID:    input.UserID,
		ProjectID: input.ProjectID,
		Role:      input.Role,
	}

	if err := s.memberRepo.Add(member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return member, nil
}

// UpdateMemberRole changes the role on an existing membership.
func (s *ProjectService) UpdateMemberRole(projectID, userID uint64, role models.ProjectRole) error {
	isMember, err := s.memberRepo.CheckMember(userID, projectID)
	if err != nil {
		return fmt.Errorf("failed to verify membership: %w", err)
	}
	if !isMember {
		return ErrMemberNotFound
	}

	if err := s.memberRepo.UpdateRole(projectID, userID, role); err != nil {
		return fmt.Errorf("failed to update member role: %w", err)
	}

	return nil
}

// RemoveMember deletes a membership. Removing a membership whose role is
// "admin" is rejected unconditionally, whoever the caller is.
func (s *ProjectService) RemoveMember(projectID, userID uint64) error {
	isMember, err := s.memberRepo.CheckMember(userID, projectID)
	if err != nil {
		return fmt.Errorf("failed to verify membership: %w", err)
	}
	if !isMember {
		return ErrMemberNotFound
	}

	isAdmin, err := s.memberRepo.CheckAdmin(userID, projectID)
	if err != nil {
		return fmt.Errorf("failed to verify membership: %w", err)
	}
	if isAdmin {
		return ErrCannotRemoveAdmin
	}

	if err := s.memberRepo.Remove(projectID, userID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}
