package ports

import (
	"context"

	"github.com/teamskills/skills-matrix-api/internal/core/domain"
)

// Actor identifies who performed an audited action.
type Actor struct {
	ID   string
	Name string
	Role domain.Role
}

// AuditPage is one page of audit entries, newest first.
type AuditPage struct {
	Items      []*domain.AuditEntry
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// AuditRecorder appends security-relevant events to the audit trail.
// Record must never fail the triggering operation: writes are
// best-effort and failures are surfaced through logs and metrics only.
type AuditRecorder interface {
	Record(actor Actor, action domain.ActionKind, entityRef, detail string)
	Query(ctx context.Context, filter AuditFilter) (*AuditPage, error)
}
