package dto

import "time"

// RegisterRequest is the registration input (password in plaintext, hashed
// in the use case).
type RegisterRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	SettingsID string `json:"settings_id" validate:"required,uuid"`
	Name       string `json:"name" validate:"omitempty,max=200"`
	Role       string `json:"role" validate:"omitempty,oneof=admin accountant viewer"`
}

// UserResponse is the user view (no password).
type UserResponse struct {
	ID         string    `json:"id"`
	SettingsID string    `json:"settings_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// LoginRequest is the login input.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the JWT token and the user view.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
