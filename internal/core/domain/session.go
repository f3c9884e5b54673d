package domain

import (
	"errors"
	"fmt"
	"time"
)

// SessionState is the lifecycle state of a session:
// Issued -> Active -> (Expired | Revoked).
type SessionState string

const (
	SessionIssued  SessionState = "issued"
	SessionActive  SessionState = "active"
	SessionExpired SessionState = "expired"
	SessionRevoked SessionState = "revoked"
)

// ErrSessionInvalid covers unknown, revoked, and malformed session
// tokens uniformly. ErrSessionExpired wraps it for tokens that parsed
// fine but are past their expiry, so callers can tell "expired" apart
// from "no session" without leaking anything else.
var ErrSessionInvalid = errors.New("session invalid")
var ErrSessionExpired = fmt.Errorf("%w: expired", ErrSessionInvalid)

// Session is a time-bounded proof of a prior successful authentication.
// The role is a snapshot taken at issue time; expiry is fixed at issue
// time and never extended by use (no sliding expiration).
type Session struct {
	ID            string    `json:"id"`
	PrincipalID   string    `json:"principal_id"`
	PrincipalName string    `json:"principal_name"`
	Role          Role      `json:"role"`
	Remember      bool      `json:"remember"`
	IssuedAt      time.Time `json:"issued_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// ExpiredAt reports whether the session is past its expiry at the given
// instant. Evaluated lazily on each access check.
func (s *Session) ExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
