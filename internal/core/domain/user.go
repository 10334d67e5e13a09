package domain

import (
	"errors"
	"time"
)

const (
	RoleCargoOwner = "cargo_owner"
	RoleAgent      = "clearance_agent"
	RoleAdmin      = "admin"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrForbidden = errors.New("access forbidden")

// User models an authenticated actor in the system. Role is fixed at
// registration; at most one role profile (cargo owner or agent) may be
// attached to a user.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ValidRole reports whether role is one of the registerable roles.
// Admin accounts are provisioned out of band, never via registration.
func ValidRole(role string) bool {
	return role == RoleCargoOwner || role == RoleAgent
}
