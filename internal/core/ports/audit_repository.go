package ports

import (
	"context"
	"time"

	"github.com/teamskills/skills-matrix-api/internal/core/domain"
)

// AuditFilter narrows an audit query. Zero values mean "no filter".
type AuditFilter struct {
	ActorID string
	From    time.Time
	To      time.Time
	Page    int // 1-based
	Limit   int // capped at 100 by the service
}

// AuditRepository persists the append-only audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
	// List returns a timestamp-descending page and the total match count.
	List(ctx context.Context, filter AuditFilter) ([]*domain.AuditEntry, int64, error)
}
