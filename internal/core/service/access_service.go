package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/teamskills/skills-matrix-api/internal/core/domain"
	"github.com/teamskills/skills-matrix-api/internal/core/ports"
)

// AccessGate performs every role check in one place. Evaluation order is
// fixed: session presence, session validity, role sufficiency; the first
// failure short-circuits and only the categorized reason escapes.
type AccessGate struct {
	sessions ports.SessionService
	audit    ports.AuditRecorder
	logger   zerolog.Logger
}

func NewAccessGate(sessions ports.SessionService, audit ports.AuditRecorder, logger zerolog.Logger) *AccessGate {
	return &AccessGate{sessions: sessions, audit: audit, logger: logger}
}

// RequireAuthenticated admits any valid session regardless of role.
func (g *AccessGate) RequireAuthenticated(ctx context.Context, token string) ports.Decision {
	if token == "" {
		return ports.Decision{Reason: ports.ReasonNoSession}
	}

	sess, err := g.sessions.Validate(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionExpired) {
			return ports.Decision{Reason: ports.ReasonExpired}
		}
		if !errors.Is(err, domain.ErrSessionInvalid) {
			g.logger.Error().Err(err).Msg("session validation failed")
		}
		return ports.Decision{Reason: ports.ReasonNoSession}
	}

	return ports.Decision{Session: sess}
}

// RequireRole admits sessions whose role snapshot satisfies the
// requirement; admins satisfy any requirement. A valid session with an
// insufficient role is Forbidden, never conflated with a missing or
// expired session.
func (g *AccessGate) RequireRole(ctx context.Context, token string, role domain.Role) ports.Decision {
	d := g.RequireAuthenticated(ctx, token)
	if !d.Allowed() {
		return d
	}

	if d.Session.Role != role && d.Session.Role != domain.RoleAdmin {
		g.audit.Record(ports.Actor{
			ID:   d.Session.PrincipalID,
			Name: d.Session.PrincipalName,
			Role: d.Session.Role,
		}, domain.ActionAccessDenied, "", "required role "+string(role))
		return ports.Decision{Reason: ports.ReasonForbidden}
	}

	return d
}
