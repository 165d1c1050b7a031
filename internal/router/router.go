package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"worktrack/internal/auth"
	"worktrack/internal/config"
	"worktrack/internal/handler"
	appmw "worktrack/internal/middleware"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	sessions auth.SessionStore,
	authHandler *handler.AuthHandler,
	adminHandler *handler.AdminHandler,
	userHandler *handler.UserHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	e.GET("/signup", authHandler.SignupPage)
	e.POST("/signup", authHandler.Signup)
	e.GET("/login", authHandler.LoginPage)
	e.POST("/login", authHandler.Login)
	e.GET("/logout", authHandler.Logout)
	e.GET("/forgot-password", authHandler.ForgotPasswordPage)
	e.POST("/forgot-password", authHandler.ForgotPassword)
	e.GET("/reset/:token", authHandler.ResetPasswordPage)
	e.POST("/reset/:token", authHandler.ResetPassword)

	// Admin routes (admin guard re-checks authentication itself)
	admin := e.Group("/admin", appmw.RequireAdmin(sessions))
	admin.GET("/dashboard", adminHandler.Dashboard)

	admin.GET("/employees", adminHandler.ListEmployees)
	admin.GET("/employees/add", adminHandler.AddEmployeePage)
	admin.POST("/employees/add", adminHandler.AddEmployee)
	admin.GET("/employees/:id/edit", adminHandler.EditEmployeePage)
	admin.POST("/employees/:id/edit", adminHandler.EditEmployee)
	admin.POST("/employees/:id/delete", adminHandler.DeleteEmployee)

	admin.GET("/projects", adminHandler.ListProjects)
	admin.GET("/projects/add", adminHandler.AddProjectPage)
	admin.POST("/projects/add", adminHandler.AddProject)
	admin.GET("/projects/:id/edit", adminHandler.EditProjectPage)
	admin.POST("/projects/:id/edit", adminHandler.EditProject)
	admin.POST("/projects/:id/delete", adminHandler.DeleteProject)
	admin.GET("/projects/:id", adminHandler.ProjectDetail)
	admin.POST("/projects/:id/assign-module", adminHandler.AssignModule)

	admin.GET("/profile", adminHandler.ProfilePage)
	admin.POST("/profile", adminHandler.UpdateProfile)
	admin.POST("/profile/change-password", adminHandler.ChangePassword)

	// Employee routes
	users := e.Group("/users", appmw.RequireAuth(sessions))
	users.GET("/dashboard", userHandler.Dashboard)
	users.GET("/projects", userHandler.MyModules)
	users.GET("/project/:moduleId/view-details", userHandler.ModuleDetails)
	users.GET("/project/:moduleId/status", userHandler.StatusPage)
	users.POST("/project/:moduleId/status", userHandler.UpdateStatus)
	users.GET("/profile", userHandler.ProfilePage)
	users.POST("/profile", userHandler.UpdateProfile)
	users.POST("/profile/change-password", userHandler.ChangePassword)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
