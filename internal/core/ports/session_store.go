package ports

import (
	"context"
	"time"

	"github.com/teamskills/skills-matrix-api/internal/core/domain"
)

// SessionStore holds the authoritative server-side session records.
// Implementations must expire records no later than ttl after Put.
type SessionStore interface {
	Put(ctx context.Context, s *domain.Session, ttl time.Duration) error
	// Get returns domain.ErrSessionInvalid for unknown or expired ids.
	Get(ctx context.Context, id string) (*domain.Session, error)
	// Delete is idempotent; deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
}
