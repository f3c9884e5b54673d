package ports

import (
	"context"

	"github.com/teamskills/skills-matrix-api/internal/core/domain"
)

// SessionService issues, validates, and revokes session tokens.
type SessionService interface {
	// Create issues a token for the principal. Expiry is fixed at issue
	// time: now + short lifetime, or now + remember lifetime when
	// remember is set.
	Create(ctx context.Context, p *domain.Principal, remember bool) (token string, s *domain.Session, err error)
	// Validate returns the active session for the token, or
	// domain.ErrSessionInvalid (domain.ErrSessionExpired for tokens
	// past expiry). Malformed tokens return the error, never panic.
	Validate(ctx context.Context, token string) (*domain.Session, error)
	// Revoke is idempotent; revoking an invalid or unknown token is a
	// no-op, not an error.
	Revoke(ctx context.Context, token string) error
}
