package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"worktrack/internal/auth"
	apperrors "worktrack/internal/errors"
	"worktrack/internal/model"
	"worktrack/internal/repository"
)

// AssignModuleInput carries the fields for assigning a module to an employee.
type AssignModuleInput struct {
	Title       string
	Description string
	AssignedTo  uint
	Status      model.ModuleStatus
	StartDate   *time.Time
	EndDate     *time.Time
}

// ModuleService exposes module assignment and progress operations.
type ModuleService interface {
	AssignModule(ctx context.Context, projectID uint, in AssignModuleInput) (*model.Module, error)
	GetModule(ctx context.Context, id uint) (*model.Module, error)
	GetModuleForUser(ctx context.Context, claims *auth.Claims, id uint) (*model.Module, error)
	ListByProject(ctx context.Context, projectID uint) ([]model.Module, error)
	ListByAssignee(ctx context.Context, userID uint) ([]model.Module, error)
	UpdateStatus(ctx context.Context, claims *auth.Claims, moduleID uint, status model.ModuleStatus, progressNotes string) (*model.Module, error)
	AssigneeDashboard(ctx context.Context, userID uint) (map[model.ModuleStatus]int64, error)
}

type moduleService struct {
	moduleRepo  repository.ModuleRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewModuleService builds a ModuleService.
func NewModuleService(moduleRepo repository.ModuleRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository) ModuleService {
	return &moduleService{
		moduleRepo:  moduleRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// AssignModule creates a module under an existing project, assigned to an
// existing user. The project binding is permanent.
func (s *moduleService) AssignModule(ctx context.Context, projectID uint, in AssignModuleInput) (*model.Module, error) {
	if in.Title == "" || in.AssignedTo == 0 {
		return nil, apperrors.NewValidationError("Title and assignee are required fields.")
	}

	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	if _, err := s.userRepo.FindByID(ctx, in.AssignedTo); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find assignee: %w", err)
	}

	status := in.Status
	if status == "" {
		status = model.ModuleStatusPending
	}
	if !model.ValidModuleStatus(status) {
		return nil, apperrors.ErrInvalidStatus
	}

	module := &model.Module{
		ProjectID:   projectID,
		Title:       in.Title,
		Description: in.Description,
		AssignedTo:  in.AssignedTo,
		Status:      status,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
	}

	if err := s.moduleRepo.Create(ctx, module); err != nil {
		return nil, fmt.Errorf("create module: %w", err)
	}

	return module, nil
}

func (s *moduleService) GetModule(ctx context.Context, id uint) (*model.Module, error) {
	module, err := s.moduleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrModuleNotFound
		}
		return nil, fmt.Errorf("find module: %w", err)
	}
	return module, nil
}

// GetModuleForUser fetches a module on behalf of a non-admin viewer. Only the
// assignee or an admin may see it; everyone else gets a 403, not a 404.
func (s *moduleService) GetModuleForUser(ctx context.Context, claims *auth.Claims, id uint) (*model.Module, error) {
	module, err := s.GetModule(ctx, id)
	if err != nil {
		return nil, err
	}
	if claims.Role != model.RoleAdmin && module.AssignedTo != claims.UserID {
		return nil, apperrors.ErrForbidden
	}
	return module, nil
}

func (s *moduleService) ListByProject(ctx context.Context, projectID uint) ([]model.Module, error) {
	return s.moduleRepo.ListByProject(ctx, projectID)
}

func (s *moduleService) ListByAssignee(ctx context.Context, userID uint) ([]model.Module, error) {
	return s.moduleRepo.ListByAssignee(ctx, userID)
}

// UpdateStatus records progress on a module. Permitted only for the assignee
// or an admin. Progress notes are the assignee's field: an admin changing
// status on someone else's module leaves them untouched.
func (s *moduleService) UpdateStatus(ctx context.Context, claims *auth.Claims, moduleID uint, status model.ModuleStatus, progressNotes string) (*model.Module, error) {
	module, err := s.GetModule(ctx, moduleID)
	if err != nil {
		return nil, err
	}

	isAssignee := module.AssignedTo == claims.UserID
	if claims.Role != model.RoleAdmin && !isAssignee {
		return nil, apperrors.ErrForbidden
	}

	if !model.ValidModuleStatus(status) {
		return nil, apperrors.ErrInvalidStatus
	}

	module.Status = status
	if isAssignee {
		module.ProgressNotes = progressNotes
	}

	if err := s.moduleRepo.Update(ctx, module); err != nil {
		return nil, fmt.Errorf("update module: %w", err)
	}

	return module, nil
}

// AssigneeDashboard returns the caller's module counts grouped by status.
func (s *moduleService) AssigneeDashboard(ctx context.Context, userID uint) (map[model.ModuleStatus]int64, error) {
	return s.moduleRepo.CountByStatusForAssignee(ctx, userID)
}
