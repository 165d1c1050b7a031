package main

import (
	"net/http"
	"os"

	_ "worktrack/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"worktrack/internal/auth"
	"worktrack/internal/cache"
	"worktrack/internal/config"
	"worktrack/internal/db"
	"worktrack/internal/handler"
	"worktrack/internal/logger"
	"worktrack/internal/model"
	"worktrack/internal/repository"
	"worktrack/internal/router"
	"worktrack/internal/service"
)

// @title WorkTrack API
// @version 1.0
// @description Project and task tracking service with employee management and session-based authentication.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name worktrack_sid
func main() {
	if err := logger.Init(os.Getenv("APP_ENV")); err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logger.Fatal("database init", zap.Error(err))
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		logger.Warn("RESET_DB=true detected, dropping all tables")
		tables := []interface{}{
			&model.Module{},
			&model.Project{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				logger.Warn("failed to drop table (may not exist)", zap.Error(err))
			}
		}
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.Module{},
	); err != nil {
		logger.Fatal("auto-migrate", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	sessions := auth.NewSessionStore(cacheClient, cfg.SessionSecret, cfg.SessionTTL)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	projectRepo := repository.NewProjectRepository(gormDB)
	moduleRepo := repository.NewModuleRepository(gormDB)

	// Initialize services
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)
	projectService := service.NewProjectService(projectRepo, userRepo)
	moduleService := service.NewModuleService(moduleRepo, projectRepo, userRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, sessions)
	adminHandler := handler.NewAdminHandler(userService, projectService, moduleService, sessions)
	userHandler := handler.NewUserHandler(userService, moduleService, sessions)

	// Register routes
	router.Register(
		e,
		cfg,
		sessions,
		authHandler,
		adminHandler,
		userHandler,
	)

	swaggerHost := cfg.SwaggerHost
	if swaggerHost == "" {
		swaggerHost = "http://localhost:" + cfg.ServerPort
	}
	logger.Info("swagger documentation available", zap.String("url", swaggerHost+"/swagger/index.html"))

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server start", zap.Error(err))
	}
}
