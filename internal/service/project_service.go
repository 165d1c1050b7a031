package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "worktrack/internal/errors"
	"worktrack/internal/model"
	"worktrack/internal/repository"
)

// ProjectInput carries the editable project fields.
type ProjectInput struct {
	Title       string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
	Status      model.ProjectStatus
}

// DashboardStats aggregates the numbers shown on the admin dashboard.
type DashboardStats struct {
	TotalEmployees      int64                          `json:"total_employees"`
	TotalProjects       int64                          `json:"total_projects"`
	ProjectStatusCounts map[model.ProjectStatus]int64 `json:"project_status_counts"`
}

// ProjectService exposes project lifecycle operations.
type ProjectService interface {
	CreateProject(ctx context.Context, createdBy uint, in ProjectInput) (*model.Project, error)
	UpdateProject(ctx context.Context, id uint, in ProjectInput) (*model.Project, error)
	DeleteProject(ctx context.Context, id uint) error
	GetProject(ctx context.Context, id uint) (*model.Project, error)
	ListProjects(ctx context.Context) ([]model.Project, error)
	Dashboard(ctx context.Context) (*DashboardStats, error)
}

type projectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewProjectService builds a ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// CreateProject creates a project owned by the given admin. CreatedBy is set
// here and never updated afterwards.
func (s *projectService) CreateProject(ctx context.Context, createdBy uint, in ProjectInput) (*model.Project, error) {
	if in.Title == "" || in.Description == "" {
		return nil, apperrors.NewValidationError("Title and description are required fields.")
	}

	status := in.Status
	if status == "" {
		status = model.ProjectStatusNotStarted
	}
	if !model.ValidProjectStatus(status) {
		return nil, apperrors.ErrInvalidStatus
	}

	project := &model.Project{
		Title:       in.Title,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Status:      status,
		CreatedBy:   createdBy,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	return project, nil
}

func (s *projectService) UpdateProject(ctx context.Context, id uint, in ProjectInput) (*model.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}

	if in.Title != "" {
		project.Title = in.Title
	}
	if in.Description != "" {
		project.Description = in.Description
	}
	if in.Status != "" {
		if !model.ValidProjectStatus(in.Status) {
			return nil, apperrors.ErrInvalidStatus
		}
		project.Status = in.Status
	}
	project.StartDate = in.StartDate
	project.EndDate = in.EndDate

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes a project and cascades to all its modules. The
// cascade runs inside one transaction; a module cannot outlive its project.
func (s *projectService) DeleteProject(ctx context.Context, id uint) error {
	if _, err := s.projectRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrProjectNotFound
		}
		return fmt.Errorf("find project: %w", err)
	}
	if err := s.projectRepo.DeleteWithModules(ctx, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

func (s *projectService) GetProject(ctx context.Context, id uint) (*model.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return project, nil
}

func (s *projectService) ListProjects(ctx context.Context) ([]model.Project, error) {
	return s.projectRepo.List(ctx)
}

// Dashboard collects counts for the admin landing page.
func (s *projectService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	employees, err := s.userRepo.CountByRole(ctx, model.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("count employees: %w", err)
	}
	projects, err := s.projectRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count projects: %w", err)
	}
	statusCounts, err := s.projectRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count projects by status: %w", err)
	}

	return &DashboardStats{
		TotalEmployees:      employees,
		TotalProjects:       projects,
		ProjectStatusCounts: statusCounts,
	}, nil
}
