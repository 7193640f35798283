package domain

import (
	"errors"
	"time"
)

// Role is the closed set of roles a user can hold.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleProfessional Role = "professional"
	RoleClient       Role = "client"
)

// DefaultRole is assigned when registration does not specify a role.
const DefaultRole = RoleClient

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProfessional, RoleClient:
		return true
	}
	return false
}

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveAccount    = errors.New("account is inactive")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidRole        = errors.New("invalid role")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("insufficient permissions")
)

// User models an account in the system.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	Phone        string    `json:"phone,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Stripped returns a copy safe to hand across the system boundary: the
// password hash is cleared on top of the json:"-" tag so no alternative
// encoder can leak it.
func (u *User) Stripped() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	return &clone
}
