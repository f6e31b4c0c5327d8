package service

import (
	"context"

	"github.com/authgrid/rbac-backend/internal/model"
	"github.com/authgrid/rbac-backend/internal/repository"
)

// The services depend on these narrow store interfaces rather than the
// concrete pgx repositories so business rules can be tested against
// in-memory fakes.

// PermissionStore is the permission persistence surface.
type PermissionStore interface {
	List(ctx context.Context, q repository.ListQuery) ([]model.Permission, int, error)
	GetByID(ctx context.Context, id string) (*model.Permission, error)
	GetByKey(ctx context.Context, key string) (*model.Permission, error)
	ExistsByKeyExcept(ctx context.Context, key, exceptID string) (bool, error)
	Create(ctx context.Context, p *model.Permission) error
	Update(ctx context.Context, p *model.Permission) error
	Delete(ctx context.Context, id string) error
	Options(ctx context.Context, onlyActive bool, search string, limit int) ([]model.Option, error)
}

// RoleStore is the role persistence surface.
type RoleStore interface {
	List(ctx context.Context, q repository.ListQuery) ([]model.Role, int, error)
	GetByID(ctx context.Context, id string) (*model.Role, error)
	GetByKey(ctx context.Context, key string) (*model.Role, error)
	ExistsByKeyExcept(ctx context.Context, key, exceptID string) (bool, error)
	Create(ctx context.Context, role *model.Role) error
	Update(ctx context.Context, role *model.Role) error
	Delete(ctx context.Context, id string) error
	Options(ctx context.Context, onlyActive bool, search string, limit int) ([]model.Option, error)
}

// AssignmentStore is the join-table persistence surface.
type AssignmentStore interface {
	HasRolePermission(ctx context.Context, roleID, permissionID string) (bool, error)
	CreateRolePermission(ctx context.Context, roleID, permissionID string) error
	DeleteRolePermission(ctx context.Context, roleID, permissionID string) error
	RoleIDsForPermission(ctx context.Context, permissionID string) ([]string, error)
	PermissionIDsForRole(ctx context.Context, roleID string) ([]string, error)
	ReplaceRolesForPermission(ctx context.Context, permissionID string, add, remove []string) error
	ReplacePermissionsForRole(ctx context.Context, roleID string, add, remove []string) error
	RolesForPermission(ctx context.Context, permissionID string, q repository.ListQuery) ([]model.Role, int, error)
	PermissionsForRole(ctx context.Context, roleID string, q repository.ListQuery) ([]model.Permission, int, error)
	CountForPermission(ctx context.Context, permissionID string) (int, error)
	CountForRole(ctx context.Context, roleID string) (int, error)

	HasUserRole(ctx context.Context, userID, roleID string) (bool, error)
	CreateUserRole(ctx context.Context, userID, roleID string) error
	DeleteUserRole(ctx context.Context, userID, roleID string) error
	RoleIDsForUser(ctx context.Context, userID string) ([]string, error)
	RolesForUser(ctx context.Context, userID string) ([]model.Role, error)
	PermissionsForUser(ctx context.Context, userID string) ([]model.Permission, error)
}

// UserStore is the user account persistence surface.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
}

// AccessInvalidator drops cached permission-check verdicts. Every assignment
// mutation must call it so no verdict outlives the data it was derived from.
type AccessInvalidator interface {
	Invalidate(ctx context.Context)
}
