package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/authgrid/rbac-backend/internal/config"
	"github.com/authgrid/rbac-backend/internal/model"
	"github.com/authgrid/rbac-backend/internal/seed"
	"github.com/authgrid/rbac-backend/internal/validator"
)

// SeedActor is recorded as created_by/updated_by on seeded rows.
const SeedActor = "system"

// SeedService applies a seed definition idempotently: entries whose key
// already exists are skipped, invalid entries are logged and skipped, and a
// storage failure aborts the whole run.
type SeedService struct {
	perms       PermissionStore
	roles       RoleStore
	assignments AssignmentStore
	opts        config.RBAC
	log         zerolog.Logger
}

// NewSeedService creates a new SeedService.
func NewSeedService(perms PermissionStore, roles RoleStore, assignments AssignmentStore, opts config.RBAC, log zerolog.Logger) *SeedService {
	return &SeedService{perms: perms, roles: roles, assignments: assignments, opts: opts, log: log}
}

// Apply seeds permissions first, then roles with their permission
// associations. Role entries referencing an unknown permission key warn and
// continue; the role is still created.
func (s *SeedService) Apply(ctx context.Context, cfg *seed.Config) error {
	for _, p := range cfg.Permissions {
		if err := s.applyPermission(ctx, p); err != nil {
			return err
		}
	}
	for _, r := range cfg.Roles {
		if err := s.applyRole(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (s *SeedService) applyPermission(ctx context.Context, p seed.Permission) error {
	if err := validator.ValidatePermissionKey(p.Key, s.opts.PermissionKeyRule); err != nil {
		s.log.Warn().Str("key", p.Key).Err(err).Msg("Skipping seed permission with invalid key")
		return nil
	}

	existing, err := s.perms.GetByKey(ctx, p.Key)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	now := time.Now().UTC()
	return s.perms.Create(ctx, &model.Permission{
		ID:          uuid.New().String(),
		Name:        p.Name,
		Key:         p.Key,
		Description: p.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   SeedActor,
		UpdatedBy:   SeedActor,
	})
}

func (s *SeedService) applyRole(ctx context.Context, r seed.Role) error {
	if err := validator.ValidateRoleKey(r.Key, s.opts.RoleKeyRule); err != nil {
		s.log.Warn().Str("key", r.Key).Err(err).Msg("Skipping seed role with invalid key")
		return nil
	}

	existing, err := s.roles.GetByKey(ctx, r.Key)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	now := time.Now().UTC()
	role := &model.Role{
		ID:          uuid.New().String(),
		Name:        r.Name,
		Key:         r.Key,
		Description: r.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   SeedActor,
		UpdatedBy:   SeedActor,
	}
	if err := s.roles.Create(ctx, role); err != nil {
		return err
	}

	for _, permKey := range r.Permissions {
		p, err := s.perms.GetByKey(ctx, permKey)
		if err != nil {
			return err
		}
		if p == nil {
			s.log.Warn().Str("role", r.Key).Str("permission", permKey).
				Msg("Permission not found (skipping association)")
			continue
		}
		if err := s.assignments.CreateRolePermission(ctx, role.ID, p.ID); err != nil {
			return err
		}
	}
	return nil
}
