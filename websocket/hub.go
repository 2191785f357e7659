package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub is the connection registry for the realtime delivery channel. It
// owns every live connection for its lifetime; the workflow engine only
// ever calls SendToUser, never the registry itself. One user may hold
// several connections at once (multiple tabs or devices), so clients
// are kept as a set per user id.
type Hub struct {
	// clients maps a user id to all of that user's live connections
	clients map[uint]map[*Client]bool

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	mu sync.RWMutex
}

// NewHub creates a new notification hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if h.clients[client.UserID] == nil {
				h.clients[client.UserID] = make(map[*Client]bool)
			}
			h.clients[client.UserID][client] = true
			h.mu.Unlock()
			log.Printf("🔌 Client registered for user %d (%d open)", client.UserID, h.ConnectionCount(client.UserID))

		case client := <-h.Unregister:
			h.mu.Lock()
			if conns, ok := h.clients[client.UserID]; ok && conns[client] {
				delete(conns, client)
				close(client.Send)
				if len(conns) == 0 {
					delete(h.clients, client.UserID)
				}
			}
			h.mu.Unlock()
			log.Printf("🔌 Client unregistered for user %d", client.UserID)
		}
	}
}

// SendToUser serializes payload and transmits it to every live
// connection owned by userID. Returns whether at least one transmission
// occurred. Fire-and-forget: no acknowledgement, no retry — a false
// return is the expected offline case, and the durable notification
// record stays recoverable via the pull path.
func (h *Hub) SendToUser(userID uint, payload interface{}) bool {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("❌ Error marshaling notification payload: %v", err)
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := false
	for client := range h.clients[userID] {
		select {
		case client.Send <- data:
			delivered = true
		default:
			// Buffer full; the write pump is stuck and the heartbeat
			// will reap this connection.
			log.Printf("⚠️ Send buffer full for user %d, dropping frame", userID)
		}
	}
	return delivered
}

// ConnectionCount returns the number of live connections for a user.
func (h *Hub) ConnectionCount(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// IsUserConnected checks if a user has at least one live connection
func (h *Hub) IsUserConnected(userID uint) bool {
	return h.ConnectionCount(userID) > 0
}

// ConnectedUsers returns the ids of all users with live connections.
func (h *Hub) ConnectedUsers() []uint {
	h.mu.RLock()
	defer h.mu.RUnlock()

	users := make([]uint, 0, len(h.clients))
	for userID := range h.clients {
		users = append(users, userID)
	}
	return users
}
