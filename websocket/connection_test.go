package websocket

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rent-easy-server/models"
)

// stubVerifier accepts exactly one token.
type stubVerifier struct {
	token  string
	userID uint
}

func (v *stubVerifier) ValidateAccessToken(token string) (uint, error) {
	if token != v.token {
		return 0, errors.New("token is invalid")
	}
	return v.userID, nil
}

func newWSServer(t *testing.T, hub *Hub, verifier TokenVerifier) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ws/notifications", func(c *gin.Context) {
		ServeNotifications(hub, verifier, c)
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func wsURL(server *httptest.Server, token string) string {
	return strings.Replace(server.URL, "http", "ws", 1) + "/ws/notifications?token=" + token
}

func TestServeNotificationsRejectsBadToken(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	verifier := &stubVerifier{token: "good", userID: 9}
	server := newWSServer(t, hub, verifier)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, "bad"), nil)
	require.NoError(t, err, "handshake succeeds; rejection happens over the socket")
	defer conn.Close()

	// The server closes with policy violation before registering
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, websocket.ClosePolicyViolation, closeErr.Code)

	assert.False(t, hub.IsUserConnected(9))
}

func TestServeNotificationsDeliversToVerifiedUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	verifier := &stubVerifier{token: "good", userID: 9}
	server := newWSServer(t, hub, verifier)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, "good"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return hub.IsUserConnected(9)
	}, 2*time.Second, 10*time.Millisecond)

	require.True(t, hub.SendToUser(9, &models.Notification{ID: 31, RecipientID: 9, Message: "ping me"}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got models.Notification
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, uint(31), got.ID)
	assert.Equal(t, "ping me", got.Message)
}

func TestClientDisconnectUnregisters(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	verifier := &stubVerifier{token: "good", userID: 5}
	server := newWSServer(t, hub, verifier)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, "good"), nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return hub.IsUserConnected(5)
	}, 2*time.Second, 10*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool {
		return !hub.IsUserConnected(5)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestNonPongingClientIsReaped(t *testing.T) {
	origPongWait, origPingPeriod := pongWait, pingPeriod
	pongWait = 150 * time.Millisecond
	pingPeriod = 50 * time.Millisecond
	t.Cleanup(func() {
		pongWait, pingPeriod = origPongWait, origPingPeriod
	})

	hub := NewHub()
	go hub.Run()

	verifier := &stubVerifier{token: "good", userID: 6}
	server := newWSServer(t, hub, verifier)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, "good"), nil)
	require.NoError(t, err)
	defer conn.Close()

	// Swallow pings instead of answering them, like a half-open
	// connection whose peer is gone
	conn.SetPingHandler(func(string) error { return nil })
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	require.Eventually(t, func() bool {
		return hub.IsUserConnected(6)
	}, 2*time.Second, 10*time.Millisecond)

	// The pong deadline passes with no pong and the server reaps the
	// connection
	require.Eventually(t, func() bool {
		return !hub.IsUserConnected(6)
	}, 2*time.Second, 10*time.Millisecond)

	assert.False(t, hub.SendToUser(6, &models.Notification{ID: 1}))
}
