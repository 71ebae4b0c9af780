package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned by stores when no session exists for an id.
var ErrSessionNotFound = errors.New("session not found")

// HistoryWindow is how many past turns are kept per session and offered to the
// extractor for resolving follow-up references ("it", "that one").
const HistoryWindow = 3

// Turn is one completed exchange: what the user said, what we understood, and
// what we answered.
type Turn struct {
	Utterance string    `json:"utterance"`
	Intent    Intent    `json:"intent"`
	Reply     string    `json:"reply"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is one user's conversation state. It lives for the process lifetime
// (or the store's TTL) and is never persisted across restarts.
type Session struct {
	ID          uuid.UUID `json:"id"`
	Turns       []Turn    `json:"turns"`
	LastProduct *Product  `json:"last_product,omitempty"`
	LastOrder   *Order    `json:"last_order,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewSession creates an empty session.
func NewSession(id uuid.UUID) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AppendTurn records a completed turn and trims history to HistoryWindow.
func (s *Session) AppendTurn(turn Turn) {
	s.Turns = append(s.Turns, turn)
	if len(s.Turns) > HistoryWindow {
		s.Turns = s.Turns[len(s.Turns)-HistoryWindow:]
	}
	s.UpdatedAt = time.Now()
}

// SessionStore is the pluggable backing for conversation state. The in-memory
// implementation serves tests and single-process runs; Redis serves production.
type SessionStore interface {
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id uuid.UUID) error
}
