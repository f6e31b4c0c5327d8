package model

import "time"

// Permission represents an atomic capability identified by a unique key such
// as "user:read". Identity (id, key uniqueness) is immutable; content fields
// are mutable through the update endpoint.
type Permission struct {
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

// Option is a {value,label} pair for select inputs.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
