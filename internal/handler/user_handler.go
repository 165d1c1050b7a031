package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"worktrack/internal/auth"
	"worktrack/internal/middleware"
	"worktrack/internal/model"
	"worktrack/internal/service"
)

// UserHandler handles the employee-facing endpoints.
type UserHandler struct {
	userService   service.UserService
	moduleService service.ModuleService
	sessions      auth.SessionStore
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService, moduleService service.ModuleService, sessions auth.SessionStore) *UserHandler {
	return &UserHandler{
		userService:   userService,
		moduleService: moduleService,
		sessions:      sessions,
	}
}

// StatusUpdateRequest represents a module progress submission.
type StatusUpdateRequest struct {
	Status        string `json:"status" form:"status" validate:"required"`
	ProgressNotes string `json:"progress_notes" form:"progress_notes"`
}

// Dashboard godoc
// @Summary Module status counts for the current user
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /users/dashboard [get]
func (h *UserHandler) Dashboard(c echo.Context) error {
	claims := middleware.ClaimsFrom(c)
	counts, err := h.moduleService.AssigneeDashboard(c.Request().Context(), claims.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user":                 claims,
		"module_status_counts": counts,
	})
}

// MyModules godoc
// @Summary Modules assigned to the current user
// @Tags users
// @Produce json
// @Success 200 {array} model.Module
// @Router /users/projects [get]
func (h *UserHandler) MyModules(c echo.Context) error {
	claims := middleware.ClaimsFrom(c)
	modules, err := h.moduleService.ListByAssignee(c.Request().Context(), claims.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, modules)
}

// ModuleDetails godoc
// @Summary View one assigned module
// @Tags users
// @Produce json
// @Param moduleId path int true "Module ID"
// @Success 200 {object} model.Module
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/project/{moduleId}/view-details [get]
func (h *UserHandler) ModuleDetails(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("moduleId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	claims := middleware.ClaimsFrom(c)
	module, err := h.moduleService.GetModuleForUser(c.Request().Context(), claims, uint(id))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, module)
}

// StatusPage godoc
// @Summary Module data for the status form
// @Tags users
// @Produce json
// @Param moduleId path int true "Module ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/project/{moduleId}/status [get]
func (h *UserHandler) StatusPage(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("moduleId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	claims := middleware.ClaimsFrom(c)
	module, err := h.moduleService.GetModuleForUser(c.Request().Context(), claims, uint(id))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"module":   module,
		"statuses": []model.ModuleStatus{model.ModuleStatusPending, model.ModuleStatusInProgress, model.ModuleStatusCompleted},
	})
}

// UpdateStatus godoc
// @Summary Update module status and progress notes
// @Tags users
// @Accept json
// @Param moduleId path int true "Module ID"
// @Param request body StatusUpdateRequest true "Status data"
// @Success 302
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/project/{moduleId}/status [post]
func (h *UserHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("moduleId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req StatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	claims := middleware.ClaimsFrom(c)
	_, err = h.moduleService.UpdateStatus(c.Request().Context(), claims, uint(id), model.ModuleStatus(req.Status), req.ProgressNotes)
	if err != nil {
		return httpError(err)
	}

	return c.Redirect(http.StatusFound, fmt.Sprintf("/users/project/%d/view-details", id))
}

// ProfilePage godoc
// @Summary Current user profile
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /users/profile [get]
func (h *UserHandler) ProfilePage(c echo.Context) error {
	return profilePage(c, h.userService)
}

// UpdateProfile godoc
// @Summary Update user profile
// @Tags users
// @Accept json
// @Param request body ProfileRequest true "Profile data"
// @Success 302
// @Router /users/profile [post]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	return updateProfile(c, h.userService, h.sessions, "/users/profile")
}

// ChangePassword godoc
// @Summary Change user password
// @Tags users
// @Accept json
// @Param request body ChangePasswordRequest true "Current and new password"
// @Success 302
// @Router /users/profile/change-password [post]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	return changePassword(c, h.userService, "/users/profile")
}
