package model

import "time"

// Role represents a named, reusable bundle of permissions. Same shape as
// Permission; the key format differs (single segment, no separator).
type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Key         string    `json:"key"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	CreatedBy   string    `json:"created_by"`
	UpdatedBy   string    `json:"updated_by"`
}

// AdminRoleKey is the role key that grants access to the management
// endpoints.
const AdminRoleKey = "admin"
