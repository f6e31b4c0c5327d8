package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/authgrid/rbac-backend/internal/model"
)

// AssignmentRepository handles the role_permissions and user_roles join
// tables, including the transactional delta application used by diff-sync.
type AssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

// ─── role_permissions ───────────────────────────────────────────────────────

// HasRolePermission reports whether the (role, permission) pair is assigned.
func (r *AssignmentRepository) HasRolePermission(ctx context.Context, roleID, permissionID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM role_permissions WHERE role_id = $1 AND permission_id = $2)",
		roleID, permissionID).Scan(&exists)
	return exists, err
}

// CreateRolePermission inserts one join row. The unique constraint on
// (role_id, permission_id) backs the existence check done by the service.
func (r *AssignmentRepository) CreateRolePermission(ctx context.Context, roleID, permissionID string) error {
	_, err := r.pool.Exec(ctx,
		"INSERT INTO role_permissions (id, role_id, permission_id, created_at) VALUES ($1, $2, $3, $4)",
		uuid.New().String(), roleID, permissionID, time.Now().UTC())
	return err
}

// DeleteRolePermission removes the join row if present. Deleting a missing
// pair is not an error.
func (r *AssignmentRepository) DeleteRolePermission(ctx context.Context, roleID, permissionID string) error {
	_, err := r.pool.Exec(ctx,
		"DELETE FROM role_permissions WHERE role_id = $1 AND permission_id = $2",
		roleID, permissionID)
	return err
}

// RoleIDsForPermission returns the ids of roles holding the permission.
func (r *AssignmentRepository) RoleIDsForPermission(ctx context.Context, permissionID string) ([]string, error) {
	return r.queryIDs(ctx,
		"SELECT role_id FROM role_permissions WHERE permission_id = $1", permissionID)
}

// PermissionIDsForRole returns the ids of permissions granted to the role.
func (r *AssignmentRepository) PermissionIDsForRole(ctx context.Context, roleID string) ([]string, error) {
	return r.queryIDs(ctx,
		"SELECT permission_id FROM role_permissions WHERE role_id = $1", roleID)
}

// ReplaceRolesForPermission applies a computed diff of role assignments for
// one permission atomically. A crash can never leave a half-applied set.
func (r *AssignmentRepository) ReplaceRolesForPermission(ctx context.Context, permissionID string, add, remove []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, roleID := range remove {
		if _, err := tx.Exec(ctx,
			"DELETE FROM role_permissions WHERE role_id = $1 AND permission_id = $2",
			roleID, permissionID); err != nil {
			return err
		}
	}
	now := time.Now().UTC()
	for _, roleID := range add {
		if _, err := tx.Exec(ctx,
			"INSERT INTO role_permissions (id, role_id, permission_id, created_at) VALUES ($1, $2, $3, $4)",
			uuid.New().String(), roleID, permissionID, now); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// ReplacePermissionsForRole is the role-side mirror of
// ReplaceRolesForPermission.
func (r *AssignmentRepository) ReplacePermissionsForRole(ctx context.Context, roleID string, add, remove []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, permissionID := range remove {
		if _, err := tx.Exec(ctx,
			"DELETE FROM role_permissions WHERE role_id = $1 AND permission_id = $2",
			roleID, permissionID); err != nil {
			return err
		}
	}
	now := time.Now().UTC()
	for _, permissionID := range add {
		if _, err := tx.Exec(ctx,
			"INSERT INTO role_permissions (id, role_id, permission_id, created_at) VALUES ($1, $2, $3, $4)",
			uuid.New().String(), roleID, permissionID, now); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// RolesForPermission returns the paginated set of roles holding a permission.
func (r *AssignmentRepository) RolesForPermission(ctx context.Context, permissionID string, q ListQuery) ([]model.Role, int, error) {
	countArgs := []interface{}{permissionID}
	countQuery := `SELECT COUNT(*) FROM roles r
		JOIN role_permissions rp ON rp.role_id = r.id
		WHERE rp.permission_id = $1` + q.searchClause(&countArgs, "r")

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args := []interface{}{permissionID}
	query := `SELECT r.id, r.name, r.key, r.description, r.is_active, r.created_at, r.updated_at, r.created_by, r.updated_by
		FROM roles r
		JOIN role_permissions rp ON rp.role_id = r.id
		WHERE rp.permission_id = $1` +
		q.searchClause(&args, "r") + q.orderClause("r") + q.limitClause(&args)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	roles := []model.Role{}
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Key, &role.Description, &role.IsActive,
			&role.CreatedAt, &role.UpdatedAt, &role.CreatedBy, &role.UpdatedBy); err != nil {
			return nil, 0, err
		}
		roles = append(roles, role)
	}
	return roles, total, rows.Err()
}

// PermissionsForRole returns the paginated set of permissions a role grants.
func (r *AssignmentRepository) PermissionsForRole(ctx context.Context, roleID string, q ListQuery) ([]model.Permission, int, error) {
	countArgs := []interface{}{roleID}
	countQuery := `SELECT COUNT(*) FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		WHERE rp.role_id = $1` + q.searchClause(&countArgs, "p")

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args := []interface{}{roleID}
	query := `SELECT p.id, p.name, p.key, p.description, p.is_active, p.created_at, p.updated_at, p.created_by, p.updated_by
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		WHERE rp.role_id = $1` +
		q.searchClause(&args, "p") + q.orderClause("p") + q.limitClause(&args)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	perms := []model.Permission{}
	for rows.Next() {
		var p model.Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.Key, &p.Description, &p.IsActive,
			&p.CreatedAt, &p.UpdatedAt, &p.CreatedBy, &p.UpdatedBy); err != nil {
			return nil, 0, err
		}
		perms = append(perms, p)
	}
	return perms, total, rows.Err()
}

// CountForPermission counts join rows referencing a permission (delete guard).
func (r *AssignmentRepository) CountForPermission(ctx context.Context, permissionID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM role_permissions WHERE permission_id = $1", permissionID).Scan(&n)
	return n, err
}

// CountForRole counts join rows referencing a role across both join tables
// (delete guard).
func (r *AssignmentRepository) CountForRole(ctx context.Context, roleID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT (SELECT COUNT(*) FROM role_permissions WHERE role_id = $1)
		      + (SELECT COUNT(*) FROM user_roles WHERE role_id = $1)`, roleID).Scan(&n)
	return n, err
}

// ─── user_roles ─────────────────────────────────────────────────────────────

// HasUserRole reports whether the (user, role) pair is assigned.
func (r *AssignmentRepository) HasUserRole(ctx context.Context, userID, roleID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM user_roles WHERE user_id = $1 AND role_id = $2)",
		userID, roleID).Scan(&exists)
	return exists, err
}

// CreateUserRole inserts one join row.
func (r *AssignmentRepository) CreateUserRole(ctx context.Context, userID, roleID string) error {
	_, err := r.pool.Exec(ctx,
		"INSERT INTO user_roles (id, user_id, role_id, created_at) VALUES ($1, $2, $3, $4)",
		uuid.New().String(), userID, roleID, time.Now().UTC())
	return err
}

// DeleteUserRole removes the join row if present.
func (r *AssignmentRepository) DeleteUserRole(ctx context.Context, userID, roleID string) error {
	_, err := r.pool.Exec(ctx,
		"DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2", userID, roleID)
	return err
}

// RoleIDsForUser returns the ids of roles assigned to the user.
func (r *AssignmentRepository) RoleIDsForUser(ctx context.Context, userID string) ([]string, error) {
	return r.queryIDs(ctx, "SELECT role_id FROM user_roles WHERE user_id = $1", userID)
}

// RolesForUser returns the roles assigned to a user, sorted by name.
func (r *AssignmentRepository) RolesForUser(ctx context.Context, userID string) ([]model.Role, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT r.id, r.name, r.key, r.description, r.is_active, r.created_at, r.updated_at, r.created_by, r.updated_by
		 FROM roles r
		 JOIN user_roles ur ON ur.role_id = r.id
		 WHERE ur.user_id = $1
		 ORDER BY r.name ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := []model.Role{}
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Key, &role.Description, &role.IsActive,
			&role.CreatedAt, &role.UpdatedAt, &role.CreatedBy, &role.UpdatedBy); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// PermissionsForUser returns the deduplicated permissions a user holds
// through any of their roles, sorted by key.
func (r *AssignmentRepository) PermissionsForUser(ctx context.Context, userID string) ([]model.Permission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT p.id, p.name, p.key, p.description, p.is_active, p.created_at, p.updated_at, p.created_by, p.updated_by
		 FROM permissions p
		 JOIN role_permissions rp ON rp.permission_id = p.id
		 JOIN user_roles ur ON ur.role_id = rp.role_id
		 WHERE ur.user_id = $1
		 ORDER BY p.key ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	perms := []model.Permission{}
	for rows.Next() {
		var p model.Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.Key, &p.Description, &p.IsActive,
			&p.CreatedAt, &p.UpdatedAt, &p.CreatedBy, &p.UpdatedBy); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

func (r *AssignmentRepository) queryIDs(ctx context.Context, query string, arg interface{}) ([]string, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
