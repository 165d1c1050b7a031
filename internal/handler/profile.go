package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"worktrack/internal/auth"
	apperrors "worktrack/internal/errors"
	"worktrack/internal/middleware"
	"worktrack/internal/service"
)

// ProfileRequest represents a self-service profile edit.
type ProfileRequest struct {
	Name        string `json:"name" form:"name"`
	Designation string `json:"designation" form:"designation"`
	Department  string `json:"department" form:"department"`
	Contact     string `json:"contact" form:"contact"`
}

// ChangePasswordRequest carries the current and replacement password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" form:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" form:"new_password" validate:"required,min=8"`
}

// The profile pages are identical for admins and employees apart from the
// redirect target, so both handlers delegate here.

func profilePage(c echo.Context, users service.UserService) error {
	claims := middleware.ClaimsFrom(c)
	user, err := users.GetUser(c.Request().Context(), claims.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user":    claims,
		"profile": user,
		"success": c.QueryParam("success"),
		"error":   c.QueryParam("error"),
	})
}

func updateProfile(c echo.Context, users service.UserService, sessions auth.SessionStore, redirectBase string) error {
	claims := middleware.ClaimsFrom(c)

	var req ProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx := c.Request().Context()
	user, err := users.UpdateProfile(ctx, claims.UserID, service.UpdateProfileInput{
		Name:        req.Name,
		Designation: req.Designation,
		Department:  req.Department,
		Contact:     req.Contact,
	})
	if err != nil {
		return redirectWithQuery(c, redirectBase, "error", "Failed to update profile.")
	}

	// Re-sync the cached session name; the role is never re-synced.
	if cookie, err := c.Cookie(auth.SessionCookieName); err == nil && cookie.Value != "" {
		_ = sessions.UpdateName(ctx, cookie.Value, user.Name)
	}

	return redirectWithQuery(c, redirectBase, "success", "Profile updated successfully!")
}

func changePassword(c echo.Context, users service.UserService, redirectBase string) error {
	claims := middleware.ClaimsFrom(c)

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return redirectWithQuery(c, redirectBase, "error", "Password must be at least 8 characters long.")
	}

	if err := users.ChangePassword(c.Request().Context(), claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, apperrors.ErrWrongPassword) {
			return redirectWithQuery(c, redirectBase, "error", "Current password is incorrect.")
		}
		var vErr *apperrors.ValidationError
		if errors.As(err, &vErr) {
			return redirectWithQuery(c, redirectBase, "error", vErr.Message)
		}
		return redirectWithQuery(c, redirectBase, "error", "Failed to change password.")
	}

	return redirectWithQuery(c, redirectBase, "success", "Password changed successfully!")
}
