package hub

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/domain"
)

// SessionSource resolves a session token to its current snapshot.
type SessionSource interface {
	Session(token string) (domain.Session, error)
}

// Options tunes the socket keepalive.
type Options struct {
	PingInterval time.Duration
	WriteTimeout time.Duration
	ReadTimeout  time.Duration
}

// Handler upgrades authenticated requests and streams session events.
type Handler struct {
	hub      *Hub
	sessions SessionSource
	opts     Options
	upgrader websocket.Upgrader
}

// NewHandler creates a WebSocket handler.
func NewHandler(h *Hub, sessions SessionSource, opts Options) *Handler {
	if opts.PingInterval <= 0 {
		opts.PingInterval = 30 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 10 * time.Second
	}
	if opts.ReadTimeout <= opts.PingInterval {
		opts.ReadTimeout = 2 * opts.PingInterval
	}
	return &Handler{
		hub:      h,
		sessions: sessions,
		opts:     opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Serve is GET /v1/session/ws. The token comes from the query string or a
// bearer header. The current snapshot is sent first.
func (h *Handler) Serve(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		token = strings.TrimPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
	}
	snap, err := h.sessions.Session(token)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid session token"})
	}

	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("failed to upgrade websocket: %v", err)
		return nil
	}

	conn := h.hub.NewConnection(ws, snap.SessionID)
	ws.SetReadLimit(4096)

	// The snapshot is re-read on the hub loop so a completion published
	// while connecting is not lost.
	h.hub.Subscribe(conn, func() []byte {
		current, err := h.sessions.Session(token)
		if err != nil {
			return nil
		}
		data, err := json.Marshal(&domain.SessionEvent{
			Type:    domain.SessionEventType,
			Ts:      time.Now().UnixMilli(),
			Session: current,
		})
		if err != nil {
			log.Printf("ERROR: failed to marshal session snapshot: %v", err)
			return nil
		}
		return data
	})

	go h.writePump(conn)
	go h.readPump(conn)
	return nil
}

// readPump only services pongs and close frames; clients send nothing.
func (h *Handler) readPump(conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		conn.Conn.Close()
	}()

	conn.Conn.SetReadDeadline(time.Now().Add(h.opts.ReadTimeout))
	conn.Conn.SetPongHandler(func(string) error {
		return conn.Conn.SetReadDeadline(time.Now().Add(h.opts.ReadTimeout))
	})

	for {
		if _, _, err := conn.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WARN: websocket error: %v", err)
			}
			return
		}
	}
}

func (h *Handler) writePump(conn *Connection) {
	ticker := time.NewTicker(h.opts.PingInterval)
	defer func() {
		ticker.Stop()
		conn.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			deadline := time.Now().Add(h.opts.WriteTimeout)
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{}, deadline)
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message, deadline); err != nil {
				log.Printf("WARN: failed to write message: %v", err)
				return
			}

		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil, time.Now().Add(h.opts.WriteTimeout)); err != nil {
				return
			}
		}
	}
}
