package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHubTest(t *testing.T) *Hub {
	t.Helper()

	hub := NewHub()
	go hub.Run()
	return hub
}

func newTestSession(hub *Hub, clientID string) *Client {
	return &Client{
		Hub:      hub,
		ClientID: clientID,
		Send:     make(chan []byte, 4),
	}
}

func sessionCount(hub *Hub, clientID string) int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return len(hub.clients[clientID])
}

func TestHub_UnregisterTwiceKeepsSecondSession(t *testing.T) {
	hub := setupHubTest(t)

	first := newTestSession(hub, "client-1")
	second := newTestSession(hub, "client-1")
	hub.Register(first)
	hub.Register(second)

	require.Eventually(t, func() bool {
		return sessionCount(hub, "client-1") == 2
	}, time.Second, 10*time.Millisecond)

	// The same session can reach unregister twice, once from the
	// full-buffer drop and once from its own pump teardown. The second
	// pass must be a no-op, not a close of an already closed channel.
	hub.Unregister(first)
	hub.Unregister(first)

	require.Eventually(t, func() bool {
		return sessionCount(hub, "client-1") == 1
	}, time.Second, 10*time.Millisecond)

	_, open := <-first.Send
	assert.False(t, open)

	// The hub loop must still be alive and servicing registrations.
	third := newTestSession(hub, "client-2")
	hub.Register(third)
	assert.Eventually(t, func() bool {
		return hub.IsClientOnline("client-2")
	}, time.Second, 10*time.Millisecond)

	assert.True(t, hub.IsClientOnline("client-1"))
	select {
	case _, open := <-second.Send:
		assert.True(t, open, "surviving session's channel must stay open")
	default:
	}
}

func TestHub_SendToClientDeliversToLiveSessions(t *testing.T) {
	hub := setupHubTest(t)

	session := newTestSession(hub, "client-1")
	hub.Register(session)
	require.Eventually(t, func() bool {
		return hub.IsClientOnline("client-1")
	}, time.Second, 10*time.Millisecond)

	err := hub.SendToClient("client-1", map[string]string{"message": "Rice 5kg added to cart successfully!"})
	require.NoError(t, err)

	select {
	case payload := <-session.Send:
		assert.Contains(t, string(payload), "Rice 5kg added to cart successfully!")
	case <-time.After(time.Second):
		t.Fatal("expected a payload on the session channel")
	}
}

func TestHub_SendToClientSkipsOfflineClients(t *testing.T) {
	hub := setupHubTest(t)

	err := hub.SendToClient("nobody-home", map[string]string{"message": "hello"})
	require.NoError(t, err)

	assert.Empty(t, hub.outbound)
}
