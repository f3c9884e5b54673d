package ports

import (
	"context"

	"github.com/teamskills/skills-matrix-api/internal/core/domain"
)

// ProvisionInput carries everything needed to create a principal.
// Admins require Email and Password; employees require ClockID.
type ProvisionInput struct {
	Name     string
	Email    string
	ClockID  string
	Role     domain.Role
	Password string
}

// CredentialService verifies and manages per-principal authentication
// material. Admin verification is email + password; the employee tier
// deliberately accepts knowledge of the clock ID alone.
type CredentialService interface {
	// VerifyAdmin collapses "no such principal" and "wrong password"
	// into domain.ErrInvalidCredentials so callers cannot enumerate
	// accounts, and takes the same bcrypt-compare path either way.
	VerifyAdmin(ctx context.Context, email, password string) (*domain.Principal, error)
	// VerifyEmployee authenticates by bare clock ID, no password.
	VerifyEmployee(ctx context.Context, clockID string) (*domain.Principal, error)
	// SetPassword stores a fresh salted hash; the plaintext is never
	// persisted or logged.
	SetPassword(ctx context.Context, principalID, plaintext string) error
	// Provision creates a principal, failing with
	// domain.ErrDuplicateIdentifier on an email or clock ID collision.
	Provision(ctx context.Context, in ProvisionInput) (*domain.Principal, error)
	// Demote strips the admin role (and password hash), refusing to
	// demote the last remaining admin.
	Demote(ctx context.Context, principalID string) error
	// Remove deletes a principal, refusing to delete the last admin.
	Remove(ctx context.Context, principalID string) error
	ListAdmins(ctx context.Context) ([]*domain.Principal, error)
}
