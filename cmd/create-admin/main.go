// Command create-admin bootstraps the first administrator: it creates a user
// account, ensures the admin role exists, and assigns it.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/authgrid/rbac-backend/internal/config"
	"github.com/authgrid/rbac-backend/internal/database"
	"github.com/authgrid/rbac-backend/internal/logger"
	"github.com/authgrid/rbac-backend/internal/model"
	"github.com/authgrid/rbac-backend/internal/repository"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)

	email := prompt("Email: ")
	name := prompt("Name: ")

	fmt.Print("Password: ")
	rawPassword, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read password")
	}
	if len(rawPassword) < 8 {
		log.Fatal().Msg("Password must be at least 8 characters")
	}

	existing, err := userRepo.GetByEmail(ctx, email)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to look up user")
	}
	if existing != nil {
		log.Fatal().Str("email", email).Msg("A user with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword(rawPassword, cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		log.Fatal().Err(err).Msg("Failed to create user")
	}

	// Ensure the admin role exists.
	adminRole, err := roleRepo.GetByKey(ctx, model.AdminRoleKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to look up admin role")
	}
	if adminRole == nil {
		adminRole = &model.Role{
			ID:          uuid.New().String(),
			Name:        "Administrator",
			Key:         model.AdminRoleKey,
			Description: "Full access to the management endpoints",
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
			CreatedBy:   "system",
			UpdatedBy:   "system",
		}
		if err := roleRepo.Create(ctx, adminRole); err != nil {
			log.Fatal().Err(err).Msg("Failed to create admin role")
		}
	}

	if err := assignmentRepo.CreateUserRole(ctx, user.ID, adminRole.ID); err != nil {
		log.Fatal().Err(err).Msg("Failed to assign admin role")
	}

	fmt.Printf("Created admin user %s (%s)\n", user.Email, user.ID)
}

func prompt(label string) string {
	fmt.Print(label)
	var value string
	fmt.Scanln(&value)
	return strings.TrimSpace(value)
}
