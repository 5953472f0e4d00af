package repository

import (
	"github.com/aonuma/project-management-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// CreateWithCredential creates a user and their credential row within a
	// single transaction.
	CreateWithCredential(user *models.User, credential *models.UserCredential) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindCredential finds the credential row for a user
	FindCredential(userID uint64) (*models.UserCredential, error)

	// List retrieves users with pagination
	List(page, pageSize int) ([]models.User, int64, error)

	// Update updates a user
	Update(user *models.User) error

	// Delete soft deletes a user
	Delete(id uint64) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID
	FindByID(id uint64) (*models.Project, error)

	// List retrieves all projects
	List() ([]models.Project, error)

	// ListByUserID retrieves the projects reachable through a user's memberships
	ListByUserID(userID uint64) ([]models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete deletes a project and all related data
	Delete(id uint64) error
}

// MemberRepository defines the interface for project membership data access.
// CheckMember and CheckAdmin back every authorization decision; they are pure
// lookups with no caching.
type MemberRepository interface {
	// Add inserts a membership row
	Add(member *models.ProjectMember) error

	// Find finds a specific membership
	Find(projectID, userID uint64) (*models.ProjectMember, error)

	// List lists all memberships of a project with their user rows
	List(projectID uint64) ([]models.ProjectMember, error)

	// ListByUserID lists all memberships of a user with their project rows
	ListByUserID(userID uint64) ([]models.ProjectMember, error)

	// UpdateRole updates the role of every membership row for the pair
	UpdateRole(projectID, userID uint64, role models.ProjectRole) error

	// Remove deletes every membership row for the pair
	Remove(projectID, userID uint64) error

	// CheckMember reports whether at least one membership row exists for the
	// pair, any role
	CheckMember(userID, projectID uint64) (bool, error)

	// CheckAdmin reports whether at least one membership row exists for the
	// pair with role "admin"
	CheckAdmin(userID, projectID uint64) (bool, error)
}

// TaskFilter holds filtering options for listing and bulk-mutating tasks
type TaskFilter struct {
	ProjectID  uint64
	Type       *string
	Status     *string
	AssigneeID *uint64
	Page       int
	PageSize   int
}

// TaskPatch holds the fields a bulk patch may change. Nil fields are left
// untouched; updated_at is always stamped.
type TaskPatch struct {
	Name        *string
	Description *string
	Type        *string
	Status      *string
	AssigneeID  *uint64
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks matching the filter
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Patch bulk-updates tasks matching the filter and returns the affected count
	Patch(filter TaskFilter, patch TaskPatch) (int64, error)

	// DeleteWhere bulk-deletes tasks matching the filter and returns the affected count
	DeleteWhere(filter TaskFilter) (int64, error)

	// DeleteDone deletes all tasks with status "done" across all projects
	DeleteDone() (int64, error)
}
