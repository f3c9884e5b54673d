package ports

import (
	"context"

	"github.com/teamskills/skills-matrix-api/internal/core/domain"
)

// RejectReason categorizes why an access check failed. The caller gets
// the category and nothing more.
type RejectReason string

const (
	// ReasonNoSession: token absent, malformed, unknown, or revoked.
	ReasonNoSession RejectReason = "no_session"
	// ReasonExpired: the session existed but is past its expiry.
	ReasonExpired RejectReason = "expired"
	// ReasonForbidden: valid session, insufficient role.
	ReasonForbidden RejectReason = "forbidden"
)

// Decision is the tagged result of an access check. Reason is empty when
// access is allowed; the presentation layer decides how to react
// (401 vs 403, redirect, etc.).
type Decision struct {
	Session *domain.Session
	Reason  RejectReason
}

// Allowed reports whether the check passed.
func (d Decision) Allowed() bool {
	return d.Reason == ""
}

// AccessGate wraps protected operations. Checks run in a fixed order:
// session presence, session validity, then role sufficiency, and
// short-circuit on the first failure.
type AccessGate interface {
	// RequireAuthenticated passes any valid session regardless of role.
	RequireAuthenticated(ctx context.Context, token string) Decision
	// RequireRole additionally requires the session's role snapshot to
	// match. Admins satisfy any role requirement.
	RequireRole(ctx context.Context, token string, role domain.Role) Decision
}
