package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/mfiorim/boutique-concierge/internal/domain"
)

// MemoryStore keeps sessions in an in-process map. It is the default backing
// and the one tests use; nothing survives a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*domain.Session
}

// NewMemoryStore creates an empty in-memory session store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[uuid.UUID]*domain.Session),
	}
}

// Get returns a copy of the stored session.
func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return clone(stored), nil
}

// Save stores a copy of the session.
func (s *MemoryStore) Save(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = clone(session)
	return nil
}

// Delete drops a session. Deleting an unknown id is not an error.
func (s *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// clone copies the session so callers never share mutable state with the map.
func clone(in *domain.Session) *domain.Session {
	out := *in
	out.Turns = append([]domain.Turn(nil), in.Turns...)
	if in.LastProduct != nil {
		p := *in.LastProduct
		out.LastProduct = &p
	}
	if in.LastOrder != nil {
		o := *in.LastOrder
		out.LastOrder = &o
	}
	return &out
}
