package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mfiorim/boutique-concierge/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "session:"
	sessionTTL       = 24 * time.Hour
)

// SessionStore is the Redis-backed domain.SessionStore. Sessions are JSON
// blobs with a TTL; an expired session simply starts over, which matches the
// no-persistence contract of the conversation state.
type SessionStore struct {
	client *Client
}

// NewSessionStore creates a Redis session store
func NewSessionStore(client *Client) *SessionStore {
	return &SessionStore{client: client}
}

// Get loads a session by id.
func (s *SessionStore) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	data, err := s.client.rdb.Get(ctx, sessionKeyPrefix+id.String()).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Save writes the session and refreshes its TTL.
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.rdb.Set(ctx, sessionKeyPrefix+session.ID.String(), data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete drops a session.
func (s *SessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.client.rdb.Del(ctx, sessionKeyPrefix+id.String()).Err()
}
