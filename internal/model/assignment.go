package model

import "time"

// RolePermission is a join row granting a role one permission. At most one
// row may exist per (role_id, permission_id) pair; the schema enforces this
// with a unique constraint.
type RolePermission struct {
	ID           string    `json:"id"`
	RoleID       string    `json:"role_id"`
	PermissionID string    `json:"permission_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserRole is a join row granting a user one role. The user entity itself is
// owned by the auth layer; this core only references its id.
type UserRole struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	RoleID    string    `json:"role_id"`
	CreatedAt time.Time `json:"created_at"`
}
