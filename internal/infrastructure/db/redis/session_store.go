package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/teamskills/skills-matrix-api/internal/core/domain"
)

// SessionStore keeps the authoritative session records in Redis as JSON
// values with a TTL matching the session lifetime.
// Key format: session:<session_id>
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a SessionStore wrapping the given client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Put stores the session record, expiring it after ttl.
func (s *SessionStore) Put(ctx context.Context, sess *domain.Session, ttl time.Duration) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session store: marshal: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sess.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("session store: set: %w", err)
	}
	return nil
}

// Get retrieves a session record. Unknown and TTL-expired ids return
// domain.ErrSessionInvalid.
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	payload, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionInvalid
		}
		return nil, fmt.Errorf("session store: get: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, fmt.Errorf("session store: unmarshal: %w", err)
	}
	return &sess, nil
}

// Delete removes a session record. Idempotent.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("session store: del: %w", err)
	}
	return nil
}

func (s *SessionStore) key(id string) string {
	return "session:" + id
}
