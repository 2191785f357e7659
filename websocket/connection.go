package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 512
)

// Heartbeat timing. Variables so tests can shorten them.
var (
	// Time allowed to read the next pong message from the peer. A
	// connection that stops answering pings blows this deadline and is
	// reaped.
	pongWait = 60 * time.Second

	// Heartbeat cadence. Must be less than pongWait.
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS policy is enforced at the HTTP layer
	},
}

// TokenVerifier verifies a bearer token and returns the user id it
// carries.
type TokenVerifier interface {
	ValidateAccessToken(token string) (uint, error)
}

// Client is one live websocket connection bound to a verified user.
type Client struct {
	Hub    *Hub
	UserID uint
	Conn   *websocket.Conn
	Send   chan []byte
}

// inboundFrame is the only client→server message shape. mark_read is
// advisory; the authoritative read mutation is the REST endpoint.
type inboundFrame struct {
	Type           string `json:"type"`
	NotificationID uint   `json:"notificationId"`
}

// ServeNotifications handles the notification websocket handshake. The
// auth token travels as a query parameter; a missing or invalid token
// closes the connection with policy-violation code 1008 before it ever
// reaches the registry.
func ServeNotifications(hub *Hub, verifier TokenVerifier, c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ WebSocket upgrade failed: %v", err)
		return
	}

	userID, err := verifier.ValidateAccessToken(c.Query("token"))
	if err != nil {
		log.Printf("🚫 WebSocket auth failed: %v", err)
		closeMsg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "invalid or missing auth token, reauthenticate")
		conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(writeWait))
		conn.Close()
		return
	}

	client := &Client{
		Hub:    hub,
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}

	client.Hub.Register <- client

	go client.writePump()
	go client.readPump()
}

// readPump drains client messages and keeps the read deadline fresh on
// pongs. A dead or half-open connection stops answering pings, blows
// the deadline and gets unregistered here.
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, messageBytes, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("❌ WebSocket read error for user %d: %v", c.UserID, err)
			}
			break
		}

		var frame inboundFrame
		if err := json.Unmarshal(messageBytes, &frame); err != nil {
			log.Printf("❌ Error unmarshaling client frame: %v", err)
			continue
		}

		switch frame.Type {
		case "mark_read":
			// Advisory only; the client confirms over REST
			log.Printf("👁️ User %d marked notification %d read (advisory)", c.UserID, frame.NotificationID)
		default:
			log.Printf("⚠️ Unknown frame type from user %d: %s", c.UserID, frame.Type)
		}
	}
}

// writePump pushes hub payloads to the socket and drives the heartbeat.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
