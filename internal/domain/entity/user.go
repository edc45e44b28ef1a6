package entity

import "time"

// Valid roles for User.
const (
	RoleAdmin      = "admin"
	RoleAccountant = "accountant"
	RoleViewer     = "viewer"
)

// User represents a system user (belongs to one BusinessSettings scope).
type User struct {
	ID           string
	SettingsID   string
	Email        string
	PasswordHash string // bcrypt hash, never plaintext past registration
	Name         string
	Role         string // admin, accountant, viewer
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
