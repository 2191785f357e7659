// Package notifclient is the client half of the notification pipeline:
// it keeps a websocket open for pushed notifications, falls back to
// pull-based refresh, and reconnects with capped exponential backoff.
// Push arrival order is not guaranteed relative to a concurrent
// refresh, so the local store merges by record identity and keeps the
// union.
package notifclient

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"rent-easy-server/models"
)

const (
	backoffBase = 2 * time.Second
	backoffCap  = 30 * time.Second
	maxAttempts = 5
)

// ConnState describes the reconnect state machine.
type ConnState int

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateOpen
)

// Client mirrors the server's notification state for one user.
type Client struct {
	baseURL string // http(s) origin of the API
	token   string

	httpClient *http.Client

	mu            sync.Mutex
	state         ConnState
	attempt       int
	conn          *websocket.Conn
	notifications map[uint]models.Notification
	closed        bool

	// backoff maps a 0-based failure count to the wait before the next
	// attempt. Overridable in tests.
	backoff func(attempt int) time.Duration

	// OnNotification, if set, fires for every new record seen on either
	// path.
	OnNotification func(models.Notification)
}

// New creates a client for the API at baseURL authenticated by token.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL:       baseURL,
		token:         token,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		notifications: make(map[uint]models.Notification),
		backoff:       backoffDelay,
	}
}

// Start opens the socket and begins the reconnect loop. It returns
// after the first connection attempt is underway.
func (c *Client) Start() {
	go c.connectLoop()
}

// Close tears the client down; the reconnect loop stops.
func (c *Client) Close() {
	c.mu.Lock()
	c.closed = true
	conn := c.conn
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

// State returns the current connection state.
func (c *Client) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Notifications returns a newest-first snapshot of the local store.
func (c *Client) Notifications() []models.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	list := make([]models.Notification, 0, len(c.notifications))
	for _, n := range c.notifications {
		list = append(list, n)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list
}

// UnreadCount returns how many stored notifications are unread.
func (c *Client) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, n := range c.notifications {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkRead marks a notification read over the authoritative REST path
// and tells the socket as a courtesy.
func (c *Client) MarkRead(notificationID uint) error {
	req, err := http.NewRequest(http.MethodPatch,
		fmt.Sprintf("%s/api/v1/notifications/%d/read", c.baseURL, notificationID), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mark read failed: %s", resp.Status)
	}

	c.mu.Lock()
	if n, ok := c.notifications[notificationID]; ok {
		n.Read = true
		c.notifications[notificationID] = n
	}
	conn := c.conn
	c.mu.Unlock()

	if conn != nil {
		// Advisory frame; failure is irrelevant
		conn.WriteJSON(map[string]interface{}{
			"type":           "mark_read",
			"notificationId": notificationID,
		})
	}
	return nil
}

// Refresh pulls the full notification list and merges it into the
// store. This is the correctness backstop for missed pushes; it runs on
// every (re)connect and may be called at any time.
func (c *Client) Refresh() error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/api/v1/notifications", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("refresh failed: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var fetched []models.Notification
	if err := json.Unmarshal(body, &fetched); err != nil {
		return err
	}

	c.merge(fetched)
	return nil
}

// merge folds records into the store keyed by id. A fetched record wins
// over a stored one (the pull path is authoritative); records the fetch
// did not return are kept, since a concurrent push may have raced ahead
// of it.
func (c *Client) merge(incoming []models.Notification) {
	var fresh []models.Notification

	c.mu.Lock()
	for _, n := range incoming {
		if _, seen := c.notifications[n.ID]; !seen {
			fresh = append(fresh, n)
		}
		c.notifications[n.ID] = n
	}
	handler := c.OnNotification
	c.mu.Unlock()

	if handler != nil {
		for _, n := range fresh {
			handler(n)
		}
	}
}

// connectLoop drives the disconnected→connecting→open state machine
// with exponential backoff, abandoning after maxAttempts consecutive
// failures.
func (c *Client) connectLoop() {
	for {
		c.mu.Lock()
		if c.closed || c.attempt >= maxAttempts {
			c.state = StateDisconnected
			abandoned := c.attempt >= maxAttempts
			c.mu.Unlock()
			if abandoned {
				log.Printf("🔌 Giving up after %d reconnect attempts", maxAttempts)
			}
			return
		}
		attempt := c.attempt
		c.state = StateConnecting
		c.mu.Unlock()

		if attempt > 0 {
			time.Sleep(c.backoff(attempt - 1))
		}

		conn, err := c.dial()
		if err != nil {
			log.Printf("❌ WebSocket connect failed (attempt %d): %v", attempt+1, err)
			c.mu.Lock()
			c.attempt++
			c.state = StateDisconnected
			c.mu.Unlock()
			continue
		}

		c.mu.Lock()
		c.conn = conn
		c.state = StateOpen
		c.attempt = 0 // successful connect resets the backoff
		c.mu.Unlock()

		log.Printf("✅ WebSocket connected")

		// Reconcile anything missed while disconnected
		if err := c.Refresh(); err != nil {
			log.Printf("⚠️ Post-connect refresh failed: %v", err)
		}

		c.readLoop(conn)

		c.mu.Lock()
		c.conn = nil
		c.state = StateDisconnected
		if c.closed {
			c.mu.Unlock()
			return
		}
		c.attempt++
		c.mu.Unlock()
	}
}

func (c *Client) dial() (*websocket.Conn, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws/notifications"
	u.RawQuery = "token=" + url.QueryEscape(c.token)

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	return conn, err
}

// readLoop consumes pushed notifications until the socket dies.
func (c *Client) readLoop(conn *websocket.Conn) {
	conn.SetPingHandler(func(appData string) error {
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(5*time.Second))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Printf("🔌 WebSocket closed: %v", err)
			conn.Close()
			return
		}

		var notification models.Notification
		if err := json.Unmarshal(data, &notification); err != nil {
			log.Printf("❌ Error parsing pushed notification: %v", err)
			continue
		}

		c.merge([]models.Notification{notification})
	}
}

// backoffDelay returns the wait before reconnect attempt n (0-based):
// 2s, 4s, 8s, 16s, 30s-capped.
func backoffDelay(n int) time.Duration {
	delay := backoffBase
	for i := 0; i < n; i++ {
		delay *= 2
		if delay >= backoffCap {
			return backoffCap
		}
	}
	if delay > backoffCap {
		return backoffCap
	}
	return delay
}
