package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/authgrid/rbac-backend/internal/model"
)

// RoleRepository handles role data access.
type RoleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository creates a new RoleRepository.
func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{pool: pool}
}

const roleColumns = "id, name, key, description, is_active, created_at, updated_at, created_by, updated_by"

func scanRole(row pgx.Row) (*model.Role, error) {
	var role model.Role
	err := row.Scan(&role.ID, &role.Name, &role.Key, &role.Description, &role.IsActive,
		&role.CreatedAt, &role.UpdatedAt, &role.CreatedBy, &role.UpdatedBy)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// List retrieves a filtered, sorted page of roles plus the total count.
func (r *RoleRepository) List(ctx context.Context, q ListQuery) ([]model.Role, int, error) {
	countArgs := []interface{}{}
	countQuery := "SELECT COUNT(*) FROM roles WHERE 1=1" + q.searchClause(&countArgs, "")

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args := []interface{}{}
	query := "SELECT " + roleColumns + " FROM roles WHERE 1=1" +
		q.searchClause(&args, "") + q.orderClause("") + q.limitClause(&args)

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

// GetByID retrieves one role, or (nil, nil) if it does not exist.
func (r *RoleRepository) GetByID(ctx context.Context, id string) (*model.Role, error) {
	role, err := scanRole(r.pool.QueryRow(ctx,
		"SELECT "+roleColumns+" FROM roles WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return role, err
}

// GetByKey retrieves one role by its unique key, or (nil, nil).
func (r *RoleRepository) GetByKey(ctx context.Context, key string) (*model.Role, error) {
	role, err := scanRole(r.pool.QueryRow(ctx,
		"SELECT "+roleColumns+" FROM roles WHERE key = $1", key))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return role, err
}

// ExistsByKeyExcept reports whether another role already uses the key.
func (r *RoleRepository) ExistsByKeyExcept(ctx context.Context, key, exceptID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM roles WHERE key = $1 AND id <> $2)",
		key, exceptID).Scan(&exists)
	return exists, err
}

// Create inserts a new role row.
func (r *RoleRepository) Create(ctx context.Context, role *model.Role) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO roles (id, name, key, description, is_active, created_at, updated_at, created_by, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		role.ID, role.Name, role.Key, role.Description, role.IsActive,
		role.CreatedAt, role.UpdatedAt, role.CreatedBy, role.UpdatedBy)
	return err
}

// Update writes the full mutable field set of a role.
func (r *RoleRepository) Update(ctx context.Context, role *model.Role) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE roles
		 SET name = $2, key = $3, description = $4, is_active = $5, updated_at = $6, updated_by = $7
		 WHERE id = $1`,
		role.ID, role.Name, role.Key, role.Description, role.IsActive, role.UpdatedAt, role.UpdatedBy)
	return err
}

// Delete removes a role row.
func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM roles WHERE id = $1", id)
	return err
}

// Options returns {value,label} pairs sorted by name for select inputs.
func (r *RoleRepository) Options(ctx context.Context, onlyActive bool, search string, limit int) ([]model.Option, error) {
	args := []interface{}{}
	query := "SELECT id, name FROM roles WHERE 1=1"
	if onlyActive {
		query += " AND is_active = TRUE"
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		query += " AND name ILIKE $1"
	}
	query += " ORDER BY name ASC"
	if limit > 0 {
		args = append(args, limit)
		query += " LIMIT $" + itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	options := []model.Option{}
	for rows.Next() {
		var o model.Option
		if err := rows.Scan(&o.Value, &o.Label); err != nil {
			return nil, err
		}
		options = append(options, o)
	}
	return options, rows.Err()
}
