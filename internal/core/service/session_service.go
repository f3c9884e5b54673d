package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/teamskills/skills-matrix-api/internal/core/domain"
	"github.com/teamskills/skills-matrix-api/internal/core/ports"
)

const (
	defaultShortLifetime    = 12 * time.Hour
	defaultRememberLifetime = 31 * 24 * time.Hour
)

// SessionService issues signed session tokens backed by a server-side
// store. The token is an HS256 JWT carrying only the session id; the
// role snapshot and expiry authoritative for access checks live in the
// store, so a signing-key compromise alone cannot mint privileges.
type SessionService struct {
	store            ports.SessionStore
	secret           []byte
	shortLifetime    time.Duration
	rememberLifetime time.Duration
	logger           zerolog.Logger
}

func NewSessionService(store ports.SessionStore, secret string, short, remember time.Duration, logger zerolog.Logger) *SessionService {
	if short <= 0 {
		short = defaultShortLifetime
	}
	if remember <= 0 {
		remember = defaultRememberLifetime
	}
	return &SessionService{
		store:            store,
		secret:           []byte(secret),
		shortLifetime:    short,
		rememberLifetime: remember,
		logger:           logger,
	}
}

// Create issues a new session for the principal. Expiry is derived once,
// at issue time, and is never extended by use.
func (s *SessionService) Create(ctx context.Context, p *domain.Principal, remember bool) (string, *domain.Session, error) {
	lifetime := s.shortLifetime
	if remember {
		lifetime = s.rememberLifetime
	}

	now := time.Now().UTC()
	sess := &domain.Session{
		ID:            uuid.NewString(),
		PrincipalID:   p.ID,
		PrincipalName: p.Name,
		Role:          p.Role,
		Remember:      remember,
		IssuedAt:      now,
		ExpiresAt:     now.Add(lifetime),
	}

	if err := s.store.Put(ctx, sess, lifetime); err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}

	claims := jwt.MapClaims{
		"sid": sess.ID,
		"iat": now.Unix(),
		"exp": sess.ExpiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		_ = s.store.Delete(ctx, sess.ID)
		return "", nil, fmt.Errorf("create session: sign token: %w", err)
	}

	s.logger.Info().
		Str("session_id", sess.ID).
		Str("principal_id", p.ID).
		Bool("remember", remember).
		Time("expires_at", sess.ExpiresAt).
		Msg("session issued")
	return token, sess, nil
}

// Validate resolves a token to its active session. Malformed, forged,
// unknown, and revoked tokens return domain.ErrSessionInvalid; tokens
// whose session is past expiry return domain.ErrSessionExpired. Expiry
// is evaluated lazily here on every check.
func (s *SessionService) Validate(ctx context.Context, token string) (*domain.Session, error) {
	sid, err := s.sessionID(token)
	if err != nil {
		return nil, domain.ErrSessionInvalid
	}

	sess, err := s.store.Get(ctx, sid)
	if err != nil {
		if errors.Is(err, domain.ErrSessionInvalid) {
			return nil, domain.ErrSessionInvalid
		}
		return nil, fmt.Errorf("validate session: %w", err)
	}

	if sess.ExpiredAt(time.Now().UTC()) {
		// Store hygiene; correctness does not depend on it.
		_ = s.store.Delete(ctx, sid)
		return nil, domain.ErrSessionExpired
	}

	return sess, nil
}

// Revoke invalidates the token's session. Idempotent: revoking an
// already-invalid, expired, or unknown token is a no-op.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	sid, err := s.sessionID(token)
	if err != nil {
		return nil
	}

	if err := s.store.Delete(ctx, sid); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	s.logger.Info().Str("session_id", sid).Msg("session revoked")
	return nil
}

// sessionID verifies the token signature and extracts the sid claim.
// The exp claim is deliberately not validated here: the store record is
// the single authority on expiry, and Revoke must still find the record
// behind an expired token.
func (s *SessionService) sessionID(token string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil || !tkn.Valid {
		return "", domain.ErrSessionInvalid
	}

	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", domain.ErrSessionInvalid
	}
	return sid, nil
}
