package protocol

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"chatwire/models"
	"chatwire/store"
)

// publishRecorder captures publishes so tests can assert on the advisory
// side channel without a broker.
type publishRecorder struct {
	mu     sync.Mutex
	events []publishedEvent
	fail   bool
}

type publishedEvent struct {
	Channel string
	Event   string
	Payload any
}

func (r *publishRecorder) Publish(_ context.Context, channel, event string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("broker unavailable")
	}
	r.events = append(r.events, publishedEvent{Channel: channel, Event: event, Payload: payload})
	return nil
}

func (r *publishRecorder) all() []publishedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]publishedEvent, len(r.events))
	copy(out, r.events)
	return out
}

func seedUser(t *testing.T, m *store.Memory, id, name, email string) models.User {
	t.Helper()
	user := models.User{ID: id, Name: name, Email: email, Image: "https://img.example/" + id}
	raw, err := json.Marshal(user)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, m.Set(ctx, store.UserKey(id), string(raw)))
	require.NoError(t, m.Set(ctx, store.UserEmailKey(email), id))
	return user
}

func makeFriends(t *testing.T, m *store.Memory, a, b string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, m.SAdd(ctx, store.FriendsKey(a), b))
	require.NoError(t, m.SAdd(ctx, store.FriendsKey(b), a))
}

func newTestProtocols(t *testing.T) (*Friends, *Messages, *store.Memory, *publishRecorder) {
	t.Helper()
	m := store.NewMemory()
	rec := &publishRecorder{}
	log := zap.NewNop()
	return NewFriends(m, rec, log), NewMessages(m, rec, log), m, rec
}
