package session

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mfiorim/boutique-concierge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id := uuid.New()
	sess := domain.NewSession(id)
	sess.AppendTurn(domain.Turn{Utterance: "show products", Reply: "here you go"})

	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	require.Len(t, got.Turns, 1)
	assert.Equal(t, "show products", got.Turns[0].Utterance)
}

func TestMemoryStoreMissingSession(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess := domain.NewSession(uuid.New())
	require.NoError(t, store.Save(ctx, sess))
	require.NoError(t, store.Delete(ctx, sess.ID))

	_, err := store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// deleting again is a no-op
	assert.NoError(t, store.Delete(ctx, sess.ID))
}

func TestMemoryStoreIsolation(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess := domain.NewSession(uuid.New())
	sess.LastOrder = &domain.Order{ID: "o1", Status: domain.OrderApproved}
	require.NoError(t, store.Save(ctx, sess))

	// mutating the caller's copy must not leak into the store
	sess.LastOrder.Status = domain.OrderDeclined
	sess.AppendTurn(domain.Turn{Utterance: "mutated"})

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderApproved, got.LastOrder.Status)
	assert.Empty(t, got.Turns)
}

func TestSessionHistoryWindow(t *testing.T) {
	sess := domain.NewSession(uuid.New())
	for _, u := range []string{"one", "two", "three", "four", "five"} {
		sess.AppendTurn(domain.Turn{Utterance: u})
	}

	require.Len(t, sess.Turns, domain.HistoryWindow)
	assert.Equal(t, "three", sess.Turns[0].Utterance)
	assert.Equal(t, "five", sess.Turns[2].Utterance)
}
