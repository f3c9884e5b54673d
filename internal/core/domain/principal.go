package domain

import (
	"errors"
	"time"
)

// Role is the coarse permission tier carried by every principal.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

var ErrPrincipalNotFound = errors.New("principal not found")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrDuplicateIdentifier = errors.New("identifier already in use")
var ErrLastAdmin = errors.New("cannot remove the last remaining admin")
var ErrNotAdmin = errors.New("principal is not an admin")
var ErrForbidden = errors.New("access forbidden")

// Principal models an authenticated actor: an admin (email + password) or
// an employee (bare clock ID, no password). Exactly one of the two
// credentials is active, determined by the role.
type Principal struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	ClockID      string    `json:"clock_id,omitempty"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin reports whether the principal carries the admin role.
func (p *Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
