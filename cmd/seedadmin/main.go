package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/yungbote/happypath-backend/internal/db"
	"github.com/yungbote/happypath-backend/internal/logger"
	"github.com/yungbote/happypath-backend/internal/repos"
	"github.com/yungbote/happypath-backend/internal/types"
	"github.com/yungbote/happypath-backend/internal/utils"
)

// Seeds the bootstrap admin account. Safe to run repeatedly.
func main() {
	log, err := logger.New("development")
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	email := utils.GetEnv("SEED_ADMIN_EMAIL", "admin@happypath.local", log)
	password := utils.GetEnv("SEED_ADMIN_PASSWORD", "admin123", log)
	name := utils.GetEnv("SEED_ADMIN_NAME", "Administrator", log)

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	userRepo := repos.NewUserRepo(postgresService.DB(), log)

	existing, err := userRepo.GetByEmail(ctx, nil, email)
	if err == nil && existing != nil {
		log.Info("Admin already exists, nothing to do", "email", email)
		return
	}
	if err != nil && !repos.IsNotFound(err) {
		log.Error("Lookup failed", "error", err)
		os.Exit(1)
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		log.Error("Could not hash password", "error", err)
		os.Exit(1)
	}

	admin := &types.User{
		ID:       uuid.New(),
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     types.RoleAdmin,
		IsActive: true,
		Avatar:   "/placeholder.svg",
	}
	if _, err := userRepo.Create(ctx, nil, admin); err != nil {
		log.Error("Could not create admin", "error", err)
		os.Exit(1)
	}
	log.Info("Admin account created", "email", email, "id", admin.ID)
}
