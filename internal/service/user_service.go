package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"gorm.io/gorm"

	"worktrack/internal/auth"
	apperrors "worktrack/internal/errors"
	"worktrack/internal/model"
	"worktrack/internal/repository"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLength = 8

// CreateEmployeeInput carries the admin-entered fields for a new employee.
type CreateEmployeeInput struct {
	Name        string
	Email       string
	Password    string
	Role        string
	Designation string
	Department  string
	Contact     string
	Status      string
}

// UpdateEmployeeInput carries the editable fields of an existing employee.
// Passwords are not changed on this path.
type UpdateEmployeeInput struct {
	Name        string
	Email       string
	Role        string
	Designation string
	Department  string
	Contact     string
	Status      string
}

// UpdateProfileInput carries the self-editable profile fields.
type UpdateProfileInput struct {
	Name        string
	Designation string
	Department  string
	Contact     string
}

// UserService exposes employee management and profile operations.
type UserService interface {
	CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*model.User, error)
	UpdateEmployee(ctx context.Context, id uint, in UpdateEmployeeInput) (*model.User, error)
	DeleteEmployee(ctx context.Context, id uint) error
	GetUser(ctx context.Context, id uint) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	ListEmployees(ctx context.Context) ([]model.User, error)
	UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*model.User, error)
	ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService builds a UserService.
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// CreateEmployee validates and creates a user on behalf of an admin.
func (s *userService) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*model.User, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" || in.Role == "" {
		return nil, apperrors.NewValidationError("Name, email, password, and role are required fields.")
	}
	if !emailPattern.MatchString(in.Email) {
		return nil, apperrors.NewValidationError("Please provide a valid email.")
	}
	if len(in.Password) < minPasswordLength {
		return nil, apperrors.NewValidationError("Password must be at least 8 characters long.")
	}
	if in.Role != model.RoleAdmin && in.Role != model.RoleUser {
		return nil, apperrors.NewValidationError("Role must be either admin or user.")
	}

	existing, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	status := in.Status
	if status == "" {
		status = model.UserStatusActive
	}

	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Designation:  in.Designation,
		Department:   in.Department,
		Contact:      in.Contact,
		Status:       status,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}

	return user, nil
}

// UpdateEmployee applies an admin edit. Role changes happen here and only
// here; a user can never change their own role through profile updates.
func (s *userService) UpdateEmployee(ctx context.Context, id uint, in UpdateEmployeeInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if in.Email != "" && in.Email != user.Email {
		if !emailPattern.MatchString(in.Email) {
			return nil, apperrors.NewValidationError("Please provide a valid email.")
		}
		existing, err := s.userRepo.FindByEmail(ctx, in.Email)
		if err == nil && existing != nil && existing.ID != id {
			return nil, apperrors.ErrEmailTaken
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("check user existence: %w", err)
		}
		user.Email = in.Email
	}

	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Role != "" {
		if in.Role != model.RoleAdmin && in.Role != model.RoleUser {
			return nil, apperrors.NewValidationError("Role must be either admin or user.")
		}
		user.Role = in.Role
	}
	if in.Status != "" {
		if in.Status != model.UserStatusActive && in.Status != model.UserStatusInactive {
			return nil, apperrors.NewValidationError("Status must be either active or inactive.")
		}
		user.Status = in.Status
	}
	user.Designation = in.Designation
	user.Department = in.Department
	user.Contact = in.Contact

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update employee: %w", err)
	}

	return user, nil
}

// DeleteEmployee removes a user permanently. There is no undo.
func (s *userService) DeleteEmployee(ctx context.Context, id uint) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	return nil
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.List(ctx)
}

// ListEmployees returns only users holding the "user" role, for assignment
// dropdowns and dashboard counts.
func (s *userService) ListEmployees(ctx context.Context) ([]model.User, error) {
	return s.userRepo.ListByRole(ctx, model.RoleUser)
}

// UpdateProfile applies a self-service edit to the caller's own record.
func (s *userService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if in.Name != "" {
		user.Name = in.Name
	}
	user.Designation = in.Designation
	user.Department = in.Department
	user.Contact = in.Contact

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return user, nil
}

// ChangePassword verifies the current password before writing a new hash.
func (s *userService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if !auth.CheckPassword(currentPassword, user.PasswordHash) {
		return apperrors.ErrWrongPassword
	}
	if len(newPassword) < minPasswordLength {
		return apperrors.NewValidationError("Password must be at least 8 characters long.")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{"password_hash": hash}); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	return nil
}
