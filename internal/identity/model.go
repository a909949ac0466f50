// Package identity supplies the current actor's identity and role for
// permission checks in the booking flows.
package identity

import (
	"strings"
	"time"
)

// Role classifies what an authenticated user may do. The role is an
// explicit attribute on the user record, resolved once at request entry.
type Role string

const (
	RoleCustomer     Role = "customer"
	RoleProfessional Role = "professional"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleProfessional
}

// User is an account that can log in.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Actor is the resolved identity attached to a request context.
type Actor struct {
	UserID string
	Role   Role
}

// IsProfessional reports whether the actor holds the professional role.
func (a Actor) IsProfessional() bool {
	return a.Role == RoleProfessional
}

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Validate checks the register payload.
func (r *RegisterRequest) Validate() error {
	if !strings.Contains(r.Email, "@") {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	if len(r.Password) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
