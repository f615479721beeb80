package realtime

import (
	"sync"

	"github.com/rs/zerolog"
)

// EventNewNotification is the event name pushed to clients when a
// notification is created for them.
const EventNewNotification = "new-notification"

// Envelope is the wire format for every message pushed over the live channel
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Pusher delivers a payload to a user's live connection if one exists.
// Delivery is best effort: a false return means the user was not connected
// (or the write failed) and is never an error.
type Pusher interface {
	Push(userID string, payload interface{}) bool
}

// Conn is the subset of a websocket connection the hub needs.
// *websocket.Conn satisfies it.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Hub is a process-wide registry mapping a user ID to its most recent live
// connection. Lifetime is the process lifetime; nothing is persisted.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]Conn
	log   zerolog.Logger
}

// NewHub creates an empty connection registry
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		conns: make(map[string]Conn),
		log:   log.With().Str("component", "hub").Logger(),
	}
}

// Register binds a connection to a user ID, replacing any prior
// registration for that user. Only the most recent connection per user is
// addressable; an older tab stops receiving pushes.
func (h *Hub) Register(c Conn, userID string) {
	h.mu.Lock()
	h.conns[userID] = c
	h.mu.Unlock()
	h.log.Debug().Str("user", userID).Msg("connection registered")
}

// Unregister removes the registry entry holding this connection, if any.
// If the user has already re-registered with a newer connection the entry
// is left alone.
func (h *Hub) Unregister(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, registered := range h.conns {
		if registered == c {
			delete(h.conns, userID)
			h.log.Debug().Str("user", userID).Msg("connection unregistered")
			return
		}
	}
}

// Push writes the payload to the user's registered connection. A user with
// no connection is the common case (offline recipient) and a silent no-op;
// a write error means the socket was closing and the delivery is lost,
// consistent with the at-most-best-effort contract.
func (h *Hub) Push(userID string, payload interface{}) bool {
	h.mu.RLock()
	c, ok := h.conns[userID]
	h.mu.RUnlock()
	if !ok {
		return false
	}

	if err := c.WriteJSON(payload); err != nil {
		h.log.Debug().Err(err).Str("user", userID).Msg("live delivery lost")
		return false
	}
	return true
}

// Connected reports whether a user currently has a registered connection
func (h *Hub) Connected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.conns[userID]
	return ok
}
