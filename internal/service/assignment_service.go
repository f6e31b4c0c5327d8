package service

import (
	"context"
	"net/http"

	"github.com/authgrid/rbac-backend/internal/model"
	"github.com/authgrid/rbac-backend/internal/response"
)

// AssignmentService handles attaching and detaching permission↔role and
// role↔user pairs. Attach is idempotent by existence check, detach by
// construction (delete-by-filter).
type AssignmentService struct {
	perms       PermissionStore
	roles       RoleStore
	users       UserStore
	assignments AssignmentStore
	invalidator AccessInvalidator
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(perms PermissionStore, roles RoleStore, users UserStore, assignments AssignmentStore, invalidator AccessInvalidator) *AssignmentService {
	return &AssignmentService{perms: perms, roles: roles, users: users, assignments: assignments, invalidator: invalidator}
}

// AssignPermissionToRole grants the permission to the role. Assigning an
// already-assigned pair succeeds without duplicating the row.
func (s *AssignmentService) AssignPermissionToRole(ctx context.Context, roleID, permissionID string) (string, error) {
	if err := s.ensureRole(ctx, roleID); err != nil {
		return "", err
	}
	if err := s.ensurePermission(ctx, permissionID); err != nil {
		return "", err
	}

	assigned, err := s.assignments.HasRolePermission(ctx, roleID, permissionID)
	if err != nil {
		return "", err
	}
	if assigned {
		return "Permission already assigned to role", nil
	}
	if err := s.assignments.CreateRolePermission(ctx, roleID, permissionID); err != nil {
		return "", err
	}
	s.invalidator.Invalidate(ctx)
	return "Permission assigned to role", nil
}

// RemovePermissionFromRole revokes the permission from the role. Removing a
// pair that was never assigned still succeeds.
func (s *AssignmentService) RemovePermissionFromRole(ctx context.Context, roleID, permissionID string) (string, error) {
	if err := s.assignments.DeleteRolePermission(ctx, roleID, permissionID); err != nil {
		return "", err
	}
	s.invalidator.Invalidate(ctx)
	return "Permission removed from role", nil
}

// AssignRoleToUser grants the role to the user, idempotently.
func (s *AssignmentService) AssignRoleToUser(ctx context.Context, userID, roleID string) (string, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return "", err
	}
	if err := s.ensureRole(ctx, roleID); err != nil {
		return "", err
	}

	assigned, err := s.assignments.HasUserRole(ctx, userID, roleID)
	if err != nil {
		return "", err
	}
	if assigned {
		return "Role already assigned to user", nil
	}
	if err := s.assignments.CreateUserRole(ctx, userID, roleID); err != nil {
		return "", err
	}
	s.invalidator.Invalidate(ctx)
	return "Role assigned to user", nil
}

// RemoveRoleFromUser revokes the role from the user, idempotently.
func (s *AssignmentService) RemoveRoleFromUser(ctx context.Context, userID, roleID string) (string, error) {
	if err := s.assignments.DeleteUserRole(ctx, userID, roleID); err != nil {
		return "", err
	}
	s.invalidator.Invalidate(ctx)
	return "Role removed from user", nil
}

// UserRoles lists the roles assigned to a user.
func (s *AssignmentService) UserRoles(ctx context.Context, userID string) ([]model.Role, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.assignments.RolesForUser(ctx, userID)
}

// UserPermissions lists the deduplicated permissions a user holds through
// their roles.
func (s *AssignmentService) UserPermissions(ctx context.Context, userID string) ([]model.Permission, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.assignments.PermissionsForUser(ctx, userID)
}

func (s *AssignmentService) ensureRole(ctx context.Context, roleID string) error {
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return err
	}
	if role == nil {
		return response.NewError(http.StatusNotFound, response.ErrRoleNotFound)
	}
	return nil
}

func (s *AssignmentService) ensurePermission(ctx context.Context, permissionID string) error {
	p, err := s.perms.GetByID(ctx, permissionID)
	if err != nil {
		return err
	}
	if p == nil {
		return response.NewError(http.StatusNotFound, response.ErrPermissionNotFound)
	}
	return nil
}

func (s *AssignmentService) ensureUser(ctx context.Context, userID string) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return response.NewError(http.StatusNotFound, response.ErrUserNotFound)
	}
	return nil
}
