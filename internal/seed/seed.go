// Package seed defines the bootstrap data applied once at startup.
package seed

import (
	"encoding/json"
	"fmt"
	"os"
)

// Permission is one permission to ensure exists.
type Permission struct {
	Name        string `json:"name"`
	Key         string `json:"key"`
	Description string `json:"description,omitempty"`
}

// Role is one role to ensure exists, with the keys of the permissions it
// should grant.
type Role struct {
	Name        string   `json:"name"`
	Key         string   `json:"key"`
	Description string   `json:"description,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// Config is a full seed definition. Permissions are applied before roles so
// role→permission associations can resolve.
type Config struct {
	Permissions []Permission `json:"permissions"`
	Roles       []Role       `json:"roles"`
}

// LoadFile reads a seed definition from a JSON file.
func LoadFile(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &cfg, nil
}
