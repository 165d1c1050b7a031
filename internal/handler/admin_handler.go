package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"worktrack/internal/auth"
	apperrors "worktrack/internal/errors"
	"worktrack/internal/logger"
	"worktrack/internal/middleware"
	"worktrack/internal/model"
	"worktrack/internal/service"
)

// AdminHandler handles the admin-only management endpoints.
type AdminHandler struct {
	userService    service.UserService
	projectService service.ProjectService
	moduleService  service.ModuleService
	sessions       auth.SessionStore
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(
	userService service.UserService,
	projectService service.ProjectService,
	moduleService service.ModuleService,
	sessions auth.SessionStore,
) *AdminHandler {
	return &AdminHandler{
		userService:    userService,
		projectService: projectService,
		moduleService:  moduleService,
		sessions:       sessions,
	}
}

// EmployeeRequest represents an add/edit employee form submission.
type EmployeeRequest struct {
	Name        string `json:"name" form:"name"`
	Email       string `json:"email" form:"email"`
	Password    string `json:"password" form:"password"`
	Role        string `json:"role" form:"role"`
	Designation string `json:"designation" form:"designation"`
	Department  string `json:"department" form:"department"`
	Contact     string `json:"contact" form:"contact"`
	Status      string `json:"status" form:"status"`
}

// ProjectRequest represents an add/edit project form submission.
type ProjectRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	StartDate   string `json:"start_date" form:"start_date"`
	EndDate     string `json:"end_date" form:"end_date"`
	Status      string `json:"status" form:"status"`
}

// AssignModuleRequest represents a module assignment form submission.
type AssignModuleRequest struct {
	Title       string `json:"title" form:"title" validate:"required"`
	Description string `json:"description" form:"description"`
	AssignedTo  uint   `json:"assigned_to" form:"assigned_to" validate:"required"`
	Status      string `json:"status" form:"status"`
	StartDate   string `json:"start_date" form:"start_date"`
	EndDate     string `json:"end_date" form:"end_date"`
}

// Dashboard godoc
// @Summary Admin dashboard aggregates
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 403 {string} string
// @Router /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	stats, err := h.projectService.Dashboard(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user":  middleware.ClaimsFrom(c),
		"stats": stats,
	})
}

// ListEmployees godoc
// @Summary List all users
// @Tags admin
// @Produce json
// @Success 200 {array} model.User
// @Router /admin/employees [get]
func (h *AdminHandler) ListEmployees(c echo.Context) error {
	employees, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, employees)
}

// AddEmployeePage returns the empty form payload for a new employee.
func (h *AdminHandler) AddEmployeePage(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"employee":    echo.Map{},
		"form_action": "/admin/employees/add",
	})
}

// AddEmployee godoc
// @Summary Create an employee
// @Tags admin
// @Accept json
// @Produce json
// @Param request body EmployeeRequest true "Employee data"
// @Success 302
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/employees/add [post]
func (h *AdminHandler) AddEmployee(c echo.Context) error {
	var req EmployeeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	_, err := h.userService.CreateEmployee(c.Request().Context(), service.CreateEmployeeInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Role:        req.Role,
		Designation: req.Designation,
		Department:  req.Department,
		Contact:     req.Contact,
		Status:      req.Status,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusBadRequest, "An employee with this email already exists.")
		}
		return httpError(err)
	}

	return c.Redirect(http.StatusFound, "/admin/employees")
}

// EditEmployeePage godoc
// @Summary Fetch an employee for editing
// @Tags admin
// @Produce json
// @Param id path int true "Employee ID"
// @Success 200 {object} model.User
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/employees/{id}/edit [get]
func (h *AdminHandler) EditEmployeePage(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	employee, err := h.userService.GetUser(c.Request().Context(), uint(id))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"employee":    employee,
		"form_action": fmt.Sprintf("/admin/employees/%d/edit", id),
	})
}

// EditEmployee godoc
// @Summary Update an employee
// @Tags admin
// @Accept json
// @Param id path int true "Employee ID"
// @Param request body EmployeeRequest true "Employee data"
// @Success 302
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/employees/{id}/edit [post]
func (h *AdminHandler) EditEmployee(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req EmployeeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	_, err = h.userService.UpdateEmployee(c.Request().Context(), uint(id), service.UpdateEmployeeInput{
		Name:        req.Name,
		Email:       req.Email,
		Role:        req.Role,
		Designation: req.Designation,
		Department:  req.Department,
		Contact:     req.Contact,
		Status:      req.Status,
	})
	if err != nil {
		return httpError(err)
	}

	return c.Redirect(http.StatusFound, "/admin/employees")
}

// DeleteEmployee godoc
// @Summary Delete an employee
// @Tags admin
// @Param id path int true "Employee ID"
// @Success 302
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/employees/{id}/delete [post]
func (h *AdminHandler) DeleteEmployee(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.userService.DeleteEmployee(c.Request().Context(), uint(id)); err != nil {
		return httpError(err)
	}
	return c.Redirect(http.StatusFound, "/admin/employees")
}

// ListProjects godoc
// @Summary List all projects
// @Tags admin
// @Produce json
// @Success 200 {array} model.Project
// @Router /admin/projects [get]
func (h *AdminHandler) ListProjects(c echo.Context) error {
	projects, err := h.projectService.ListProjects(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, projects)
}

// AddProjectPage returns the empty form payload for a new project.
func (h *AdminHandler) AddProjectPage(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"project":     echo.Map{},
		"form_action": "/admin/projects/add",
	})
}

// AddProject godoc
// @Summary Create a project
// @Tags admin
// @Accept json
// @Param request body ProjectRequest true "Project data"
// @Success 302
// @Failure 400 {object} errors.ErrorResponse
// @Router /admin/projects/add [post]
func (h *AdminHandler) AddProject(c echo.Context) error {
	var req ProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	in, err := projectInputFromRequest(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
	}

	claims := middleware.ClaimsFrom(c)
	if _, err := h.projectService.CreateProject(c.Request().Context(), claims.UserID, in); err != nil {
		return httpError(err)
	}

	return c.Redirect(http.StatusFound, "/admin/projects")
}

// EditProjectPage godoc
// @Summary Fetch a project for editing
// @Tags admin
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} model.Project
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/projects/{id}/edit [get]
func (h *AdminHandler) EditProjectPage(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	project, err := h.projectService.GetProject(c.Request().Context(), uint(id))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"project":     project,
		"form_action": fmt.Sprintf("/admin/projects/%d/edit", id),
	})
}

// EditProject godoc
// @Summary Update a project
// @Tags admin
// @Accept json
// @Param id path int true "Project ID"
// @Param request body ProjectRequest true "Project data"
// @Success 302
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/projects/{id}/edit [post]
func (h *AdminHandler) EditProject(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req ProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	in, err := projectInputFromRequest(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
	}

	if _, err := h.projectService.UpdateProject(c.Request().Context(), uint(id), in); err != nil {
		return httpError(err)
	}

	return c.Redirect(http.StatusFound, "/admin/projects")
}

// DeleteProject godoc
// @Summary Delete a project and its modules
// @Tags admin
// @Param id path int true "Project ID"
// @Success 302
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/projects/{id}/delete [post]
func (h *AdminHandler) DeleteProject(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.projectService.DeleteProject(c.Request().Context(), uint(id)); err != nil {
		return httpError(err)
	}
	logger.Info("project deleted with modules", zap.Int("project_id", id))
	return c.Redirect(http.StatusFound, "/admin/projects")
}

// ProjectDetail godoc
// @Summary Project detail with modules and assignable employees
// @Tags admin
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/projects/{id} [get]
func (h *AdminHandler) ProjectDetail(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()

	project, err := h.projectService.GetProject(ctx, uint(id))
	if err != nil {
		return httpError(err)
	}
	modules, err := h.moduleService.ListByProject(ctx, uint(id))
	if err != nil {
		return httpError(err)
	}
	employees, err := h.userService.ListEmployees(ctx)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"project":   project,
		"modules":   modules,
		"employees": employees,
	})
}

// AssignModule godoc
// @Summary Assign a module to an employee
// @Tags admin
// @Accept json
// @Param id path int true "Project ID"
// @Param request body AssignModuleRequest true "Module data"
// @Success 302
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/projects/{id}/assign-module [post]
func (h *AdminHandler) AssignModule(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req AssignModuleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
	}

	_, err = h.moduleService.AssignModule(c.Request().Context(), uint(id), service.AssignModuleInput{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Status:      model.ModuleStatus(req.Status),
		StartDate:   startDate,
		EndDate:     endDate,
	})
	if err != nil {
		return httpError(err)
	}

	return c.Redirect(http.StatusFound, fmt.Sprintf("/admin/projects/%d", id))
}

// ProfilePage godoc
// @Summary Current admin profile
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /admin/profile [get]
func (h *AdminHandler) ProfilePage(c echo.Context) error {
	return profilePage(c, h.userService)
}

// UpdateProfile godoc
// @Summary Update admin profile
// @Tags admin
// @Accept json
// @Param request body ProfileRequest true "Profile data"
// @Success 302
// @Router /admin/profile [post]
func (h *AdminHandler) UpdateProfile(c echo.Context) error {
	return updateProfile(c, h.userService, h.sessions, "/admin/profile")
}

// ChangePassword godoc
// @Summary Change admin password
// @Tags admin
// @Accept json
// @Param request body ChangePasswordRequest true "Current and new password"
// @Success 302
// @Router /admin/profile/change-password [post]
func (h *AdminHandler) ChangePassword(c echo.Context) error {
	return changePassword(c, h.userService, "/admin/profile")
}

func projectInputFromRequest(req ProjectRequest) (service.ProjectInput, error) {
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return service.ProjectInput{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return service.ProjectInput{}, err
	}
	return service.ProjectInput{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   startDate,
		EndDate:     endDate,
		Status:      model.ProjectStatus(req.Status),
	}, nil
}

func redirectWithQuery(c echo.Context, base, key, message string) error {
	return c.Redirect(http.StatusFound, base+"?"+key+"="+url.QueryEscape(message))
}
