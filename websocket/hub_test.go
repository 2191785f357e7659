package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rent-easy-server/models"
)

func newTestClient(hub *Hub, userID uint) *Client {
	return &Client{
		Hub:    hub,
		UserID: userID,
		Send:   make(chan []byte, 16),
	}
}

func register(t *testing.T, hub *Hub, client *Client, want int) {
	t.Helper()
	hub.Register <- client
	require.Eventually(t, func() bool {
		return hub.ConnectionCount(client.UserID) == want
	}, time.Second, 5*time.Millisecond)
}

func TestSendToUserReachesEveryConnection(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// Same user, two tabs
	tabOne := newTestClient(hub, 7)
	tabTwo := newTestClient(hub, 7)
	register(t, hub, tabOne, 1)
	register(t, hub, tabTwo, 2)

	notification := &models.Notification{ID: 12, RecipientID: 7, Message: "hello"}
	require.True(t, hub.SendToUser(7, notification))

	for _, tab := range []*Client{tabOne, tabTwo} {
		select {
		case frame := <-tab.Send:
			var got models.Notification
			require.NoError(t, json.Unmarshal(frame, &got))
			assert.Equal(t, uint(12), got.ID)
			assert.Equal(t, "hello", got.Message)
		case <-time.After(time.Second):
			t.Fatal("connection never received the frame")
		}
	}
}

func TestSendToUserOffline(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// No connection for user 42: not an error, just not delivered
	assert.False(t, hub.SendToUser(42, &models.Notification{ID: 1}))
	assert.False(t, hub.IsUserConnected(42))
}

func TestSendToUserDoesNotCrossUsers(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	mine := newTestClient(hub, 1)
	theirs := newTestClient(hub, 2)
	register(t, hub, mine, 1)
	register(t, hub, theirs, 1)

	require.True(t, hub.SendToUser(1, &models.Notification{ID: 5, RecipientID: 1}))

	select {
	case <-mine.Send:
	case <-time.After(time.Second):
		t.Fatal("recipient never received the frame")
	}

	select {
	case <-theirs.Send:
		t.Fatal("frame leaked to another user")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnregisterCleansUp(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient(hub, 3)
	register(t, hub, client, 1)

	hub.Unregister <- client
	require.Eventually(t, func() bool {
		return !hub.IsUserConnected(3)
	}, time.Second, 5*time.Millisecond)

	// Send channel is closed so the write pump can exit
	_, open := <-client.Send
	assert.False(t, open)

	assert.False(t, hub.SendToUser(3, &models.Notification{ID: 9}))
	assert.NotContains(t, hub.ConnectedUsers(), uint(3))
}

func TestSendToUserSkipsFullBuffer(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	stuck := &Client{Hub: hub, UserID: 8, Send: make(chan []byte)} // unbuffered, nobody reading
	healthy := newTestClient(hub, 8)
	register(t, hub, stuck, 1)
	register(t, hub, healthy, 2)

	// Delivery still counts as long as one connection accepted the frame
	require.True(t, hub.SendToUser(8, &models.Notification{ID: 2}))
	select {
	case <-healthy.Send:
	case <-time.After(time.Second):
		t.Fatal("healthy connection never received the frame")
	}
}
