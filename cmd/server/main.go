package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/authgrid/rbac-backend/internal/config"
	"github.com/authgrid/rbac-backend/internal/database"
	"github.com/authgrid/rbac-backend/internal/handler"
	"github.com/authgrid/rbac-backend/internal/logger"
	"github.com/authgrid/rbac-backend/internal/repository"
	"github.com/authgrid/rbac-backend/internal/router"
	"github.com/authgrid/rbac-backend/internal/seed"
	"github.com/authgrid/rbac-backend/internal/service"
	"github.com/authgrid/rbac-backend/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting RBAC backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	permissionRepo := repository.NewPermissionRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	accessService := service.NewAccessService(permissionRepo, assignmentRepo, rdb, cfg.RBAC.CheckCacheTTL, log)
	permissionService := service.NewPermissionService(permissionRepo, roleRepo, assignmentRepo, accessService, cfg.RBAC)
	roleService := service.NewRoleService(roleRepo, permissionRepo, assignmentRepo, accessService, cfg.RBAC)
	assignmentService := service.NewAssignmentService(permissionRepo, roleRepo, userRepo, assignmentRepo, accessService)
	authService := service.NewAuthService(cfg, userRepo, assignmentRepo)
	seedService := service.NewSeedService(permissionRepo, roleRepo, assignmentRepo, cfg.RBAC, log)

	// ─── Apply Seed Data ──────────────────────────────────────────────
	// Runs before the server accepts traffic; a storage failure here is
	// fatal, a bad individual entry is logged and skipped.
	if cfg.RBAC.SeedFile != "" {
		seedCfg, err := seed.LoadFile(cfg.RBAC.SeedFile)
		if err != nil {
			log.Fatal().Err(err).Str("file", cfg.RBAC.SeedFile).Msg("Failed to load seed file")
		}
		if err := seedService.Apply(ctx, seedCfg); err != nil {
			log.Fatal().Err(err).Msg("Seeding failed")
		}
		log.Info().Str("file", cfg.RBAC.SeedFile).Msg("Seed data applied")
	}

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Permission: handler.NewPermissionHandler(permissionService, cfg.RBAC.Pagination),
		Role:       handler.NewRoleHandler(roleService, cfg.RBAC.Pagination),
		Assignment: handler.NewAssignmentHandler(assignmentService),
		Access:     handler.NewAccessHandler(accessService),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
