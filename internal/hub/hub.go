// Package hub fans session snapshots out to WebSocket subscribers.
package hub

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/domain"
)

// Connection is one subscriber socket bound to a session.
type Connection struct {
	ID        string
	SessionID string
	Conn      *websocket.Conn
	Send      chan []byte
	mu        sync.Mutex

	// initial, if set, is queued by the hub loop at registration so that it
	// is ordered before any later broadcast.
	initial func() []byte
}

type sessionMessage struct {
	sessionID string
	data      []byte
}

// Hub tracks connections per session.
type Hub struct {
	connections map[string]*Connection
	sessions    map[string]map[string]bool

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *sessionMessage
	closing    chan string
	done       chan struct{}

	mu sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]*Connection),
		sessions:    make(map[string]map[string]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		broadcast:   make(chan *sessionMessage, 256),
		closing:     make(chan string),
		done:        make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return

		case conn := <-h.register:
			h.mu.Lock()
			h.connections[conn.ID] = conn
			if h.sessions[conn.SessionID] == nil {
				h.sessions[conn.SessionID] = make(map[string]bool)
			}
			h.sessions[conn.SessionID][conn.ID] = true
			h.mu.Unlock()
			if conn.initial != nil {
				if data := conn.initial(); data != nil {
					conn.Send <- data
				}
			}
			log.Printf("subscriber registered: %s (session: %s)", conn.ID, conn.SessionID)

		case conn := <-h.unregister:
			h.remove(conn)

		case sessionID := <-h.closing:
			h.mu.RLock()
			var conns []*Connection
			for connID := range h.sessions[sessionID] {
				conns = append(conns, h.connections[connID])
			}
			h.mu.RUnlock()
			for _, conn := range conns {
				h.remove(conn)
			}

		case msg := <-h.broadcast:
			h.mu.RLock()
			for connID := range h.sessions[msg.sessionID] {
				conn, ok := h.connections[connID]
				if !ok {
					continue
				}
				select {
				case conn.Send <- msg.data:
				default:
					log.Printf("WARN: subscriber %s buffer full, closing", connID)
					go h.Unregister(conn)
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) remove(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.connections[conn.ID]; !ok {
		return
	}
	delete(h.connections, conn.ID)
	if set := h.sessions[conn.SessionID]; set != nil {
		delete(set, conn.ID)
		if len(set) == 0 {
			delete(h.sessions, conn.SessionID)
		}
	}
	close(conn.Send)
	log.Printf("subscriber unregistered: %s", conn.ID)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, conn := range h.connections {
		close(conn.Send)
		delete(h.connections, id)
	}
	h.sessions = make(map[string]map[string]bool)
}

// NewConnection wraps ws as a subscriber of sessionID. It still has to be
// registered.
func (h *Hub) NewConnection(ws *websocket.Conn, sessionID string) *Connection {
	return &Connection{
		ID:        "sub_" + uuid.New().String()[:8],
		SessionID: sessionID,
		Conn:      ws,
		Send:      make(chan []byte, 16),
	}
}

// Register adds a connection.
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
	}
}

// Subscribe registers conn and queues initial() as its first message. initial
// runs on the hub loop, so every broadcast it does not reflect is delivered
// after it.
func (h *Hub) Subscribe(conn *Connection, initial func() []byte) {
	conn.initial = initial
	h.Register(conn)
}

// CloseSession disconnects every subscriber of sessionID.
func (h *Hub) CloseSession(sessionID string) {
	select {
	case h.closing <- sessionID:
	case <-h.done:
	}
}

// Unregister removes a connection and closes its send queue.
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Publish queues event for every subscriber of sessionID.
func (h *Hub) Publish(sessionID string, event *domain.SessionEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ERROR: failed to marshal session event: %v", err)
		return
	}
	select {
	case h.broadcast <- &sessionMessage{sessionID: sessionID, data: data}:
	default:
		log.Printf("WARN: broadcast queue full, dropping event for session %s", sessionID)
	}
}

// SubscriberCount returns the number of connections bound to sessionID.
func (h *Hub) SubscriberCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// WriteMessage writes to the socket with the connection lock held.
func (c *Connection) WriteMessage(messageType int, data []byte, deadline time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.Conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return c.Conn.WriteMessage(messageType, data)
}
