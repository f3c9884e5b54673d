package ports

import (
	"context"

	"github.com/teamskills/skills-matrix-api/internal/core/domain"
)

// PrincipalRepository defines persistence for authentication principals.
type PrincipalRepository interface {
	Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error)
	FindByID(ctx context.Context, id string) (*domain.Principal, error)
	// FindByEmail looks up an admin login identifier.
	FindByEmail(ctx context.Context, email string) (*domain.Principal, error)
	// FindByClockID looks up an employee's bare login key.
	FindByClockID(ctx context.Context, clockID string) (*domain.Principal, error)
	// UpdatePasswordHash atomically replaces the stored hash.
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	// SetRole changes the role; demotion to employee clears the hash.
	SetRole(ctx context.Context, id string, role domain.Role) error
	// UpdateIdentifiers keeps login identifiers in sync when an
	// employee profile's email or clock ID changes.
	UpdateIdentifiers(ctx context.Context, id, email, clockID string) error
	Delete(ctx context.Context, id string) error
	// CountAdmins returns the number of principals with the admin role.
	CountAdmins(ctx context.Context) (int64, error)
	ListAdmins(ctx context.Context) ([]*domain.Principal, error)
}
