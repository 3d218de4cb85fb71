package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Role is a user's access level.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
	RoleStaff    Role = "STAFF"
)

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCustomer, RoleStaff:
		return true
	}
	return false
}

// User is a platform account. Email uniqueness spans the whole user
// population and is enforced by the identity repository (ExistsByEmail plus a
// unique index), not here.
type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Active bool   `json:"active"`
}

// NewUser creates an active user account.
func NewUser(email string, role Role) (*User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("email is required: %w", ErrInvalidValue)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("role %q is not valid: %w", role, ErrInvalidValue)
	}
	return &User{
		ID:     uuid.NewString(),
		Email:  email,
		Role:   role,
		Active: true,
	}, nil
}

// Deactivate disables the account.
func (u *User) Deactivate() { u.Active = false }

// Activate re-enables the account.
func (u *User) Activate() { u.Active = true }

// IsAdmin reports whether the user has administrator privileges.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
