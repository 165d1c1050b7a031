package main

import (
	"context"
	"errors"
	"log"
	"os"

	"gorm.io/gorm"

	"worktrack/internal/auth"
	"worktrack/internal/config"
	"worktrack/internal/db"
	"worktrack/internal/model"
	"worktrack/internal/repository"
)

// Seeds one admin account so a fresh deployment has a way in. Re-running
// against an existing account resets its password and role.
func main() {
	log.Println("Starting seed script...")

	name := getEnv("SEED_ADMIN_NAME", "Administrator")
	email := getEnv("SEED_ADMIN_EMAIL", "admin@worktrack.local")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("SEED_ADMIN_PASSWORD is required")
	}

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	userRepo := repository.NewUserRepository(gormDB)
	ctx := context.Background()

	existing, err := userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Failed to look up admin account: %v", err)
	}

	if existing != nil {
		existing.Name = name
		existing.PasswordHash = hash
		existing.Role = model.RoleAdmin
		existing.Status = model.UserStatusActive
		if err := userRepo.Update(ctx, existing); err != nil {
			log.Fatalf("Failed to update admin account: %v", err)
		}
		log.Printf("Seed completed: updated existing admin %s", email)
		return
	}

	admin := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		Status:       model.UserStatusActive,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		log.Fatalf("Failed to create admin account: %v", err)
	}
	log.Printf("Seed completed: created admin %s", email)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
