package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"worktrack/internal/auth"
	apperrors "worktrack/internal/errors"
	"worktrack/internal/logger"
	"worktrack/internal/model"
	"worktrack/internal/service"
)

// AuthHandler handles signup, login, logout and password reset endpoints.
type AuthHandler struct {
	authService service.AuthService
	sessions    auth.SessionStore
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, sessions auth.SessionStore) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
	}
}

// SignupRequest represents a self-registration request.
type SignupRequest struct {
	Name     string `json:"name" form:"name" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=8"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// ForgotPasswordRequest represents a reset-link request.
type ForgotPasswordRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

// ResetPasswordRequest carries the replacement password.
type ResetPasswordRequest struct {
	Password string `json:"password" form:"password" validate:"required,min=8"`
}

// SignupPage godoc
// @Summary Signup page data
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /signup [get]
func (h *AuthHandler) SignupPage(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"page": "signup"})
}

// Signup godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Registration data"
// @Success 302
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.authService.Signup(c.Request().Context(), req.Name, req.Email, req.Password); err != nil {
		if errors.Is(err, apperrors.ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusBadRequest, "User with this email already exists.")
		}
		return httpError(err)
	}

	return c.Redirect(http.StatusFound, "/login")
}

// LoginPage godoc
// @Summary Login page data
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /login [get]
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"page": "login"})
}

// Login godoc
// @Summary Login and start a session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 302
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	claims, user, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid email or password.")
		}
		return httpError(err)
	}

	// Never carry the pre-login session id across authentication.
	if cookie, err := c.Cookie(auth.SessionCookieName); err == nil && cookie.Value != "" {
		_ = h.sessions.Destroy(ctx, cookie.Value)
	}

	cookieValue, err := h.sessions.Create(ctx, *claims)
	if err != nil {
		return httpError(err)
	}

	c.SetCookie(&http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    cookieValue,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	logger.Info("user logged in", zap.Uint("user_id", user.ID), zap.String("role", user.Role))

	if user.Role == model.RoleAdmin {
		return c.Redirect(http.StatusFound, "/admin/dashboard")
	}
	return c.Redirect(http.StatusFound, "/users/dashboard")
}

// Logout godoc
// @Summary End the current session
// @Tags auth
// @Success 302
// @Router /logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(auth.SessionCookieName); err == nil && cookie.Value != "" {
		_ = h.sessions.Destroy(c.Request().Context(), cookie.Value)
	}

	c.SetCookie(&http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	return c.Redirect(http.StatusFound, "/login")
}

// ForgotPasswordPage godoc
// @Summary Forgot-password page data
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /forgot-password [get]
func (h *AuthHandler) ForgotPasswordPage(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"page": "forgot-password"})
}

// ForgotPassword godoc
// @Summary Request a password reset link
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Account email"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Router /forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// The response must not reveal whether the email is registered. The token
	// itself travels out of band (mailer); it never appears in the response.
	if _, err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			return httpError(err)
		}
	} else {
		logger.Debug("password reset token issued", zap.String("email", req.Email))
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "If an account with that email exists, a password reset link has been sent.",
	})
}

// ResetPasswordPage godoc
// @Summary Validate a reset token before showing the form
// @Tags auth
// @Produce json
// @Param token path string true "Reset token"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Router /reset/{token} [get]
func (h *AuthHandler) ResetPasswordPage(c echo.Context) error {
	token := c.Param("token")
	if _, err := h.authService.ValidateResetToken(c.Request().Context(), token); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"page": "reset-password", "token": token})
}

// ResetPassword godoc
// @Summary Consume a reset token and set a new password
// @Tags auth
// @Accept json
// @Produce json
// @Param token path string true "Reset token"
// @Param request body ResetPasswordRequest true "New password"
// @Success 302
// @Failure 400 {object} errors.ErrorResponse
// @Router /reset/{token} [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ResetPassword(c.Request().Context(), c.Param("token"), req.Password); err != nil {
		return httpError(err)
	}

	return c.Redirect(http.StatusFound, "/login")
}
