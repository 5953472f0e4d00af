package services

import (
	"errors"
	"fmt"

	"github.com/aonuma/project-management-api/internal/models"
	"github.com/aonuma/project-management-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrEmailImmutable = errors.New("email cannot be changed")
	ErrRoleImmutable  = errors.New("role cannot be changed")
)

// UserService provides business logic for user administration.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// ListUsers retrieves users with pagination.
func (s *UserService) ListUsers(page, pageSize int) ([]models.User, int64, error) {
	users, total, err := s.userRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateUserInput represents partial updates to a user row.
type UpdateUserInput struct {
	Username  *string
	Email     *string
	Role      *models.GlobalRole
	FirstName *string
	LastName  *string
}

// UpdateUser applies an administrative update to any user field.
func (s *UserService) UpdateUser(id uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// UpdateMe applies a self-service profile update. Email and role are
// immutable through this path.
func (s *UserService) UpdateMe(id uint64, input UpdateUserInput) (*models.User, error) {
	if input.Email != nil {
		return nil, ErrEmailImmutable
	}
	if input.Role != nil {
		return nil, ErrRoleImmutable
	}

	return s.UpdateUser(id, input)
}

// DeleteUser removes a user, their credential, and their memberships.
func (s *UserService) DeleteUser(id uint64) error {
	if _, err := s.GetUser(id); err != nil {
		return err
	}

	if err := s.userRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}
