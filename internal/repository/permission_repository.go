package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/authgrid/rbac-backend/internal/model"
)

// PermissionRepository handles permission data access.
type PermissionRepository struct {
	pool *pgxpool.Pool
}

// NewPermissionRepository creates a new PermissionRepository.
func NewPermissionRepository(pool *pgxpool.Pool) *PermissionRepository {
	return &PermissionRepository{pool: pool}
}

const permissionColumns = "id, name, key, description, is_active, created_at, updated_at, created_by, updated_by"

func scanPermission(row pgx.Row) (*model.Permission, error) {
	var p model.Permission
	err := row.Scan(&p.ID, &p.Name, &p.Key, &p.Description, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt, &p.CreatedBy, &p.UpdatedBy)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List retrieves a filtered, sorted page of permissions plus the total count.
func (r *PermissionRepository) List(ctx context.Context, q ListQuery) ([]model.Permission, int, error) {
	countArgs := []interface{}{}
	countQuery := "SELECT COUNT(*) FROM permissions WHERE 1=1" + q.searchClause(&countArgs, "")

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args := []interface{}{}
	query := "SELECT " + permissionColumns + " FROM permissions WHERE 1=1" +
		q.searchClause(&args, "") + q.orderClause("") + q.limitClause(&args)

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

// GetByID retrieves one permission, or (nil, nil) if it does not exist.
func (r *PermissionRepository) GetByID(ctx context.Context, id string) (*model.Permission, error) {
	p, err := scanPermission(r.pool.QueryRow(ctx,
		"SELECT "+permissionColumns+" FROM permissions WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// GetByKey retrieves one permission by its unique key, or (nil, nil).
func (r *PermissionRepository) GetByKey(ctx context.Context, key string) (*model.Permission, error) {
	p, err := scanPermission(r.pool.QueryRow(ctx,
		"SELECT "+permissionColumns+" FROM permissions WHERE key = $1", key))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// ExistsByKeyExcept reports whether another permission already uses the key.
// An empty exceptID checks all rows.
func (r *PermissionRepository) ExistsByKeyExcept(ctx context.Context, key, exceptID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM permissions WHERE key = $1 AND id <> $2)",
		key, exceptID).Scan(&exists)
	return exists, err
}

// Create inserts a new permission row.
func (r *PermissionRepository) Create(ctx context.Context, p *model.Permission) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO permissions (id, name, key, description, is_active, created_at, updated_at, created_by, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.Name, p.Key, p.Description, p.IsActive, p.CreatedAt, p.UpdatedAt, p.CreatedBy, p.UpdatedBy)
	return err
}

// Update writes the full mutable field set of a permission.
func (r *PermissionRepository) Update(ctx context.Context, p *model.Permission) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE permissions
		 SET name = $2, key = $3, description = $4, is_active = $5, updated_at = $6, updated_by = $7
		 WHERE id = $1`,
		p.ID, p.Name, p.Key, p.Description, p.IsActive, p.UpdatedAt, p.UpdatedBy)
	return err
}

// Delete removes a permission row.
func (r *PermissionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM permissions WHERE id = $1", id)
	return err
}

// Options returns {value,label} pairs sorted by name for select inputs.
func (r *PermissionRepository) Options(ctx context.Context, onlyActive bool, search string, limit int) ([]model.Option, error) {
	args := []interface{}{}
	query := "SELECT id, name FROM permissions WHERE 1=1"
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
