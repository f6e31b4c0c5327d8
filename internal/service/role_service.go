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

// RoleService handles business logic for roles and their permission
// assignments. Structurally the mirror of PermissionService.
type RoleService struct {
	roles       RoleStore
	perms       PermissionStore
	assignments AssignmentStore
	invalidator AccessInvalidator
	opts        config.RBAC
}

// NewRoleService creates a new RoleService.
func NewRoleService(roles RoleStore, perms PermissionStore, assignments AssignmentStore, invalidator AccessInvalidator, opts config.RBAC) *RoleService {
	return &RoleService{roles: roles, perms: perms, assignments: assignments, invalidator: invalidator, opts: opts}
}

// CreateRoleInput carries the create-role payload.
type CreateRoleInput struct {
	Name          string
	Key           string
	Description   string
	IsActive      *bool
	PermissionIDs []string
}

// UpdateRoleInput carries the partial update payload. A non-nil empty
// PermissionIDs slice clears all permission assignments.
type UpdateRoleInput struct {
	ID            string
	Name          *string
	Key           *string
	Description   *string
	IsActive      *bool
	PermissionIDs *[]string
}

// List retrieves a filtered page of roles.
func (s *RoleService) List(ctx context.Context, q repository.ListQuery) ([]model.Role, int, error) {
	return s.roles.List(ctx, q)
}

// Get retrieves one role by id.
func (s *RoleService) Get(ctx context.Context, id string) (*model.Role, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, response.NewError(http.StatusNotFound, response.ErrRoleNotFound)
	}
	return role, nil
}

// Create validates and inserts a new role, optionally granting it the given
// permissions.
func (s *RoleService) Create(ctx context.Context, in CreateRoleInput, actor string) (*model.Role, error) {
	if err := validator.ValidateRoleKey(in.Key, s.opts.RoleKeyRule); err != nil {
		return nil, err
	}

	exists, err := s.roles.ExistsByKeyExcept(ctx, in.Key, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, response.NewError(http.StatusBadRequest, response.ErrRoleAlreadyExists)
	}

	if err := s.ensurePermissionsExist(ctx, in.PermissionIDs); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	role := &model.Role{
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
		role.IsActive = *in.IsActive
	}

	if err := s.roles.Create(ctx, role); err != nil {
		return nil, err
	}

	if len(in.PermissionIDs) > 0 {
		add, _ := diffIDs(nil, in.PermissionIDs)
		if err := s.assignments.ReplacePermissionsForRole(ctx, role.ID, add, nil); err != nil {
			return nil, err
		}
		s.invalidator.Invalidate(ctx)
	}
	return role, nil
}

// Update applies a partial update. When PermissionIDs is present (even
// empty) the role's permission assignments are diff-synced to exactly that
// set.
func (s *RoleService) Update(ctx context.Context, in UpdateRoleInput, actor string) (*model.Role, error) {
	role, err := s.Get(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if in.Key != nil && *in.Key != role.Key {
		if err := validator.ValidateRoleKey(*in.Key, s.opts.RoleKeyRule); err != nil {
			return nil, err
		}
		taken, err := s.roles.ExistsByKeyExcept(ctx, *in.Key, role.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, response.NewError(http.StatusBadRequest, response.ErrRoleAlreadyExists)
		}
		role.Key = *in.Key
	}
	if in.Name != nil {
		role.Name = *in.Name
	}
	if in.Description != nil {
		role.Description = *in.Description
	}
	if in.IsActive != nil {
		role.IsActive = *in.IsActive
	}
	role.UpdatedAt = time.Now().UTC()
	role.UpdatedBy = actor

	if err := s.roles.Update(ctx, role); err != nil {
		return nil, err
	}

	if in.PermissionIDs != nil {
		if err := s.ensurePermissionsExist(ctx, *in.PermissionIDs); err != nil {
			return nil, err
		}
		current, err := s.assignments.PermissionIDsForRole(ctx, role.ID)
		if err != nil {
			return nil, err
		}
		add, remove := diffIDs(current, *in.PermissionIDs)
		if len(add) > 0 || len(remove) > 0 {
			if err := s.assignments.ReplacePermissionsForRole(ctx, role.ID, add, remove); err != nil {
				return nil, err
			}
			s.invalidator.Invalidate(ctx)
		}
	}
	return role, nil
}

// Delete removes a role. Roles still referenced by users or permissions are
// protected from deletion.
func (s *RoleService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	n, err := s.assignments.CountForRole(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return response.NewError(http.StatusConflict, response.ErrCannotDeleteAssignedRole)
	}
	return s.roles.Delete(ctx, id)
}

// Options returns {value,label} pairs for select inputs.
func (s *RoleService) Options(ctx context.Context, onlyActive bool, search string, limit int) ([]model.Option, error) {
	return s.roles.Options(ctx, onlyActive, search, limit)
}

// Permissions resolves a role by id or key and returns the paginated
// permissions it grants.
func (s *RoleService) Permissions(ctx context.Context, roleID, roleKey string, q repository.ListQuery) (*model.Role, []model.Permission, int, error) {
	var role *model.Role
	var err error
	if roleID != "" {
		role, err = s.roles.GetByID(ctx, roleID)
	} else {
		role, err = s.roles.GetByKey(ctx, roleKey)
	}
	if err != nil {
		return nil, nil, 0, err
	}
	if role == nil {
		return nil, nil, 0, response.NewError(http.StatusNotFound, response.ErrRoleNotFound)
	}

	perms, total, err := s.assignments.PermissionsForRole(ctx, role.ID, q)
	if err != nil {
		return nil, nil, 0, err
	}
	return role, perms, total, nil
}

func (s *RoleService) ensurePermissionsExist(ctx context.Context, permissionIDs []string) error {
	for _, permissionID := range permissionIDs {
		p, err := s.perms.GetByID(ctx, permissionID)
		if err != nil {
			return err
		}
		if p == nil {
			return response.NewErrorMsg(http.StatusNotFound, response.ErrPermissionNotFound,
				"Permission not found: "+permissionID)
		}
	}
	return nil
}
