package service

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/authgrid/rbac-backend/internal/config"
	"github.com/authgrid/rbac-backend/internal/model"
	"github.com/authgrid/rbac-backend/internal/repository"
	"github.com/authgrid/rbac-backend/internal/response"
	"github.com/authgrid/rbac-backend/internal/validator"
)

// PermissionService handles business logic for permissions and their role
// assignments.
type PermissionService struct {
	perms       PermissionStore
	roles       RoleStore
	assignments AssignmentStore
	invalidator AccessInvalidator
	opts        config.RBAC
}

// NewPermissionService creates a new PermissionService.
func NewPermissionService(perms PermissionStore, roles RoleStore, assignments AssignmentStore, invalidator AccessInvalidator, opts config.RBAC) *PermissionService {
	return &PermissionService{perms: perms, roles: roles, assignments: assignments, invalidator: invalidator, opts: opts}
}

// CreatePermissionInput carries the create-permission payload.
type CreatePermissionInput struct {
	Name        string
	Key         string
	Description string
	IsActive    *bool
	RoleIDs     []string
}

// UpdatePermissionInput carries the partial update payload. Nil pointers mean
// "leave unchanged"; a non-nil empty RoleIDs slice means "clear all role
// assignments".
type UpdatePermissionInput struct {
	ID          string
	Name        *string
	Key         *string
	Description *string
	IsActive    *bool
	RoleIDs     *[]string
}

// List retrieves a filtered page of permissions. Storage failures propagate;
// an empty page always means there was genuinely no data.
func (s *PermissionService) List(ctx context.Context, q repository.ListQuery) ([]model.Permission, int, error) {
	return s.perms.List(ctx, q)
}

// Get retrieves one permission by id.
func (s *PermissionService) Get(ctx context.Context, id string) (*model.Permission, error) {
	p, err := s.perms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, response.NewError(http.StatusNotFound, response.ErrPermissionNotFound)
	}
	return p, nil
}

// Create validates and inserts a new permission, optionally assigning it to
// the given roles. Every referenced role must exist before anything is
// written.
func (s *PermissionService) Create(ctx context.Context, in CreatePermissionInput, actor string) (*model.Permission, error) {
	if err := validator.ValidatePermissionKey(in.Key, s.opts.PermissionKeyRule); err != nil {
		return nil, err
	}

	exists, err := s.perms.ExistsByKeyExcept(ctx, in.Key, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, response.NewError(http.StatusBadRequest, response.ErrPermissionAlreadyExists)
	}

	if err := s.ensureRolesExist(ctx, in.RoleIDs); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &model.Permission{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Key:         in.Key,
		Description: in.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   actor,
		UpdatedBy:   actor,
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}

	if err := s.perms.Create(ctx, p); err != nil {
		return nil, err
	}

	if len(in.RoleIDs) > 0 {
		add, _ := diffIDs(nil, in.RoleIDs)
		if err := s.assignments.ReplaceRolesForPermission(ctx, p.ID, add, nil); err != nil {
			return nil, err
		}
		s.invalidator.Invalidate(ctx)
	}
	return p, nil
}

// Update applies a partial update. When RoleIDs is present (even empty) the
// permission's role assignments are diff-synced to exactly that set; when
// absent they are left untouched.
func (s *PermissionService) Update(ctx context.Context, in UpdatePermissionInput, actor string) (*model.Permission, error) {
	p, err := s.Get(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if in.Key != nil && *in.Key != p.Key {
		if err := validator.ValidatePermissionKey(*in.Key, s.opts.PermissionKeyRule); err != nil {
			return nil, err
		}
		taken, err := s.perms.ExistsByKeyExcept(ctx, *in.Key, p.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, response.NewError(http.StatusBadRequest, response.ErrPermissionAlreadyExists)
		}
		p.Key = *in.Key
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	p.UpdatedAt = time.Now().UTC()
	p.UpdatedBy = actor

	if err := s.perms.Update(ctx, p); err != nil {
		return nil, err
	}

	if in.RoleIDs != nil {
		if err := s.ensureRolesExist(ctx, *in.RoleIDs); err != nil {
			return nil, err
		}
		current, err := s.assignments.RoleIDsForPermission(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		add, remove := diffIDs(current, *in.RoleIDs)
		if len(add) > 0 || len(remove) > 0 {
			if err := s.assignments.ReplaceRolesForPermission(ctx, p.ID, add, remove); err != nil {
				return nil, err
			}
			s.invalidator.Invalidate(ctx)
		}
	}
	return p, nil
}

// Delete removes a permission. Permissions still assigned to roles are
// protected from deletion.
func (s *PermissionService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	n, err := s.assignments.CountForPermission(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return response.NewError(http.StatusConflict, response.ErrCannotDeleteAssignedPermission)
	}
	return s.perms.Delete(ctx, id)
}

// Options returns {value,label} pairs for select inputs.
func (s *PermissionService) Options(ctx context.Context, onlyActive bool, search string, limit int) ([]model.Option, error) {
	return s.perms.Options(ctx, onlyActive, search, limit)
}

// Roles resolves a permission by id or key and returns the paginated roles
// that include it.
func (s *PermissionService) Roles(ctx context.Context, permissionID, permissionKey string, q repository.ListQuery) (*model.Permission, []model.Role, int, error) {
	var p *model.Permission
	var err error
	if permissionID != "" {
		p, err = s.perms.GetByID(ctx, permissionID)
	} else {
		p, err = s.perms.GetByKey(ctx, permissionKey)
	}
	if err != nil {
		return nil, nil, 0, err
	}
	if p == nil {
		return nil, nil, 0, response.NewError(http.StatusNotFound, response.ErrPermissionNotFound)
	}

	roles, total, err := s.assignments.RolesForPermission(ctx, p.ID, q)
	if err != nil {
		return nil, nil, 0, err
	}
	return p, roles, total, nil
}

func (s *PermissionService) ensureRolesExist(ctx context.Context, roleIDs []string) error {
	for _, roleID := range roleIDs {
		role, err := s.roles.GetByID(ctx, roleID)
		if err != nil {
			return err
		}
		if role == nil {
			return response.NewErrorMsg(http.StatusNotFound, response.ErrRoleNotFound,
				"Role not found: "+roleID)
		}
	}
	return nil
}
