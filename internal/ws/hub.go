package ws

import (
	"encoding/json"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type client struct {
	userID string
	conn   *websocket.Conn
	send   chan []byte
}

func newClient(userID string, conn *websocket.Conn) *client {
	c := &client{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, 64),
	}
	go c.writePump()
	return c
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (c *client) close() {
	close(c.send)
}

// Hub tracks connected learners and fans messages out to them. One
// connection per user; a new connection for the same user replaces the
// old one. Presence changes are throttled into a single update, and a
// full presence snapshot goes out periodically as a safety net against
// missed deltas.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client

	throttle       time.Duration
	snapshotTicker *time.Ticker

	flushMu         sync.Mutex
	flushTimer      *time.Timer
	presencePending bool
}

// NewHub creates a hub that throttles presence broadcasts to at most
// one per throttle interval and emits a full presence snapshot every
// snapshotInterval.
func NewHub(throttle, snapshotInterval time.Duration) *Hub {
	h := &Hub{
		clients:  make(map[string]*client),
		throttle: throttle,
	}
	h.snapshotTicker = time.NewTicker(snapshotInterval)
	go h.snapshotLoop()
	return h
}

// AddClient registers a connection for the user, displacing any
// previous connection, and queues a presence update.
func (h *Hub) AddClient(userID string, conn *websocket.Conn) *client {
	c := newClient(userID, conn)

	h.mu.Lock()
	if old, ok := h.clients[userID]; ok {
		old.close()
	}
	h.clients[userID] = c
	h.mu.Unlock()

	h.queuePresence()
	return c
}

// RemoveClient unregisters the client if it is still the user's active
// connection and queues a presence update.
func (h *Hub) RemoveClient(c *client) {
	h.mu.Lock()
	if cur, ok := h.clients[c.userID]; ok && cur == c {
		delete(h.clients, c.userID)
		c.close()
	}
	h.mu.Unlock()

	h.queuePresence()
}

// SendTo delivers a message to one user. Returns false when the user is
// offline.
func (h *Hub) SendTo(userID string, msg WSMessage) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("ws marshal error: %v", err)
		return false
	}

	h.mu.RLock()
	c, ok := h.clients[userID]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	h.deliver(c, data)
	return true
}

// SendToAll broadcasts a message to the given users; absent users are
// skipped.
func (h *Hub) SendToAll(userIDs []string, msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("ws marshal error: %v", err)
		return
	}

	h.mu.RLock()
	targets := make([]*client, 0, len(userIDs))
	for _, id := range userIDs {
		if c, ok := h.clients[id]; ok {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		h.deliver(c, data)
	}
}

// Broadcast sends a message to every connected client.
func (h *Hub) Broadcast(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("ws marshal error: %v", err)
		return
	}

	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		h.deliver(c, data)
	}
}

// deliver enqueues data for one client, dropping the connection when
// its send buffer is full. The send happens under the registry read
// lock: the channel is only ever closed under the write lock, so a
// client verified as still registered cannot have a closed channel.
func (h *Hub) deliver(c *client, data []byte) {
	h.mu.RLock()
	if h.clients[c.userID] != c {
		h.mu.RUnlock()
		return
	}
	select {
	case c.send <- data:
		h.mu.RUnlock()
	default:
		h.mu.RUnlock()
		log.Printf("ws client %s too slow, disconnecting", c.userID)
		h.RemoveClient(c)
	}
}

// queuePresence schedules a throttled presence broadcast.
func (h *Hub) queuePresence() {
	h.flushMu.Lock()
	defer h.flushMu.Unlock()

	h.presencePending = true
	if h.flushTimer == nil {
		h.flushTimer = time.AfterFunc(h.throttle, h.flushPresence)
	}
}

func (h *Hub) flushPresence() {
	h.flushMu.Lock()
	pending := h.presencePending
	h.presencePending = false
	h.flushTimer = nil
	h.flushMu.Unlock()

	if !pending {
		return
	}
	h.Broadcast(WSMessage{Type: MsgPresenceUpdate, Payload: h.presence()})
}

func (h *Hub) snapshotLoop() {
	for range h.snapshotTicker.C {
		h.Broadcast(WSMessage{Type: MsgPresenceUpdate, Payload: h.presence()})
	}
}

// presence builds the current presence payload with a stable user
// ordering.
func (h *Hub) presence() PresenceUpdatePayload {
	h.mu.RLock()
	users := make([]string, 0, len(h.clients))
	for id := range h.clients {
		users = append(users, id)
	}
	h.mu.RUnlock()

	sort.Strings(users)
	return PresenceUpdatePayload{
		OnlineCount: len(users),
		OnlineUsers: users,
	}
}

// OnlineCount returns how many users are connected.
func (h *Hub) OnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
