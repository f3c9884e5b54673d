package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/teamskills/skills-matrix-api/internal/core/domain"
)

type memSessionStore struct {
	sessions map[string]*domain.Session
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]*domain.Session)}
}

func (s *memSessionStore) Put(_ context.Context, sess *domain.Session, _ time.Duration) error {
	clone := *sess
	s.sessions[sess.ID] = &clone
	return nil
}

func (s *memSessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionInvalid
	}
	clone := *sess
	return &clone, nil
}

func (s *memSessionStore) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

func testPrincipal() *domain.Principal {
	return &domain.Principal{ID: "p1", Name: "Alice", Role: domain.RoleAdmin}
}

func TestSessionService_CreateAndValidate(t *testing.T) {
	store := newMemSessionStore()
	svc := NewSessionService(store, "secret", 12*time.Hour, 31*24*time.Hour, zerolog.Nop())
	ctx := context.Background()

	token, created, err := svc.Create(ctx, testPrincipal(), false)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}

	sess, err := svc.Validate(ctx, token)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if sess.ID != created.ID || sess.PrincipalID != "p1" || sess.Role != domain.RoleAdmin {
		t.Fatalf("unexpected session: %+v", sess)
	}
}

func TestSessionService_Lifetimes(t *testing.T) {
	store := newMemSessionStore()
	svc := NewSessionService(store, "secret", 12*time.Hour, 31*24*time.Hour, zerolog.Nop())
	ctx := context.Background()

	_, short, err := svc.Create(ctx, testPrincipal(), false)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if got := short.ExpiresAt.Sub(short.IssuedAt); got != 12*time.Hour {
		t.Fatalf("short lifetime: expected 12h, got %v", got)
	}

	_, remembered, err := svc.Create(ctx, testPrincipal(), true)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if got := remembered.ExpiresAt.Sub(remembered.IssuedAt); got != 31*24*time.Hour {
		t.Fatalf("remember lifetime: expected 744h, got %v", got)
	}
}

func TestSessionService_NoSlidingExpiration(t *testing.T) {
	store := newMemSessionStore()
	svc := NewSessionService(store, "secret", time.Hour, 0, zerolog.Nop())
	ctx := context.Background()

	token, created, err := svc.Create(ctx, testPrincipal(), false)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	for i := 0; i < 3; i++ {
		sess, err := svc.Validate(ctx, token)
		if err != nil {
			t.Fatalf("Validate #%d returned error: %v", i, err)
		}
		if !sess.ExpiresAt.Equal(created.ExpiresAt) {
			t.Fatalf("expiry moved from %v to %v", created.ExpiresAt, sess.ExpiresAt)
		}
	}
}

func TestSessionService_Validate_Expired(t *testing.T) {
	store := newMemSessionStore()
	svc := NewSessionService(store, "secret", time.Hour, 0, zerolog.Nop())
	ctx := context.Background()

	token, created, err := svc.Create(ctx, testPrincipal(), false)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// Age the stored record past its expiry.
	store.sessions[created.ID].ExpiresAt = time.Now().UTC().Add(-time.Minute)

	_, err = svc.Validate(ctx, token)
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	// Expired must still satisfy errors.Is on the invalid sentinel so
	// callers that only care about validity need a single check.
	if !errors.Is(err, domain.ErrSessionInvalid) {
		t.Fatalf("ErrSessionExpired should wrap ErrSessionInvalid")
	}

	if _, ok := store.sessions[created.ID]; ok {
		t.Fatalf("expected expired record removed from store")
	}
}

func TestSessionService_Validate_Garbage(t *testing.T) {
	svc := NewSessionService(newMemSessionStore(), "secret", time.Hour, 0, zerolog.Nop())
	ctx := context.Background()

	for _, token := range []string{"", "not-a-token", "a.b.c", "eyJhbGciOiJIUzI1NiJ9..", "%%%%"} {
		if _, err := svc.Validate(ctx, token); !errors.Is(err, domain.ErrSessionInvalid) {
			t.Errorf("Validate(%q): expected ErrSessionInvalid, got %v", token, err)
		}
	}
}

func TestSessionService_Validate_WrongKey(t *testing.T) {
	store := newMemSessionStore()
	issuer := NewSessionService(store, "other-secret", time.Hour, 0, zerolog.Nop())
	verifier := NewSessionService(store, "secret", time.Hour, 0, zerolog.Nop())
	ctx := context.Background()

	token, _, err := issuer.Create(ctx, testPrincipal(), false)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := verifier.Validate(ctx, token); !errors.Is(err, domain.ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid for forged token, got %v", err)
	}
}

func TestSessionService_Revoke_Idempotent(t *testing.T) {
	store := newMemSessionStore()
	svc := NewSessionService(store, "secret", time.Hour, 0, zerolog.Nop())
	ctx := context.Background()

	token, _, err := svc.Create(ctx, testPrincipal(), false)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := svc.Revoke(ctx, token); err != nil {
		t.Fatalf("first Revoke returned error: %v", err)
	}
	if _, err := svc.Validate(ctx, token); !errors.Is(err, domain.ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid after revoke, got %v", err)
	}

	// Revoking again, or revoking junk, is a no-op.
	if err := svc.Revoke(ctx, token); err != nil {
		t.Fatalf("second Revoke returned error: %v", err)
	}
	if err := svc.Revoke(ctx, "garbage"); err != nil {
		t.Fatalf("Revoke of malformed token returned error: %v", err)
	}
}
