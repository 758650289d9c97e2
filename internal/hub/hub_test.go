package hub

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/domain"
)

type staticSessions map[string]domain.Session

func (s staticSessions) Session(token string) (domain.Session, error) {
	snap, ok := s[token]
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return snap, nil
}

// completingSessions finishes a pending generation right after the first
// lookup, publishing the result through the hub.
type completingSessions struct {
	mu      sync.Mutex
	hub     *Hub
	current domain.Session
	calls   int
}

func (s *completingSessions) Session(token string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.current
	s.calls++
	if s.calls == 1 {
		s.current.Pending = false
		s.current.State = domain.StateDiagnosis
		s.hub.Publish(token, &domain.SessionEvent{Type: domain.SessionEventType, Session: s.current})
	}
	return snap, nil
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)
	return h
}

func TestPublishReachesSessionSubscribers(t *testing.T) {
	h := startHub(t)

	a := h.NewConnection(nil, "sess-a")
	b := h.NewConnection(nil, "sess-b")
	h.Register(a)
	h.Register(b)
	require.Eventually(t, func() bool { return h.SubscriberCount("sess-a") == 1 }, time.Second, time.Millisecond)

	h.Publish("sess-a", &domain.SessionEvent{Type: domain.SessionEventType, Session: domain.Session{SessionID: "sess-a"}})

	select {
	case data := <-a.Send:
		var event domain.SessionEvent
		require.NoError(t, json.Unmarshal(data, &event))
		assert.Equal(t, "sess-a", event.Session.SessionID)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}

	select {
	case <-b.Send:
		t.Fatal("subscriber of another session received the event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnregisterClosesQueue(t *testing.T) {
	h := startHub(t)
	conn := h.NewConnection(nil, "sess")
	h.Register(conn)
	h.Unregister(conn)

	_, ok := <-conn.Send
	assert.False(t, ok)
	assert.Equal(t, 0, h.SubscriberCount("sess"))
}

func TestWebSocketStreamsSnapshots(t *testing.T) {
	h := startHub(t)
	sessions := staticSessions{"tok": {SessionID: "tok", State: domain.StateInitial}}

	e := echo.New()
	e.GET("/v1/session/ws", NewHandler(h, sessions, Options{PingInterval: time.Second}).Serve)
	server := httptest.NewServer(e)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/v1/session/ws?token=tok"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer ws.Close()

	var event domain.SessionEvent
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, ws.ReadJSON(&event))
	assert.Equal(t, domain.SessionEventType, event.Type)
	assert.Equal(t, domain.StateInitial, event.Session.State)

	require.Eventually(t, func() bool { return h.SubscriberCount("tok") == 1 }, time.Second, time.Millisecond)
	h.Publish("tok", &domain.SessionEvent{Type: domain.SessionEventType, Session: domain.Session{SessionID: "tok", State: domain.StateFollowUp}})

	require.NoError(t, ws.ReadJSON(&event))
	assert.Equal(t, domain.StateFollowUp, event.Session.State)
}

func TestWebSocketRejectsUnknownToken(t *testing.T) {
	h := startHub(t)
	e := echo.New()
	e.GET("/v1/session/ws", NewHandler(h, staticSessions{}, Options{}).Serve)
	server := httptest.NewServer(e)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/v1/session/ws?token=nope"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestCompletionDuringConnectIsNotLost(t *testing.T) {
	h := startHub(t)
	sessions := &completingSessions{
		hub:     h,
		current: domain.Session{SessionID: "tok", State: domain.StateFollowUp, Pending: true},
	}

	e := echo.New()
	e.GET("/v1/session/ws", NewHandler(h, sessions, Options{PingInterval: time.Second}).Serve)
	server := httptest.NewServer(e)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/v1/session/ws?token=tok"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer ws.Close()

	var event domain.SessionEvent
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, ws.ReadJSON(&event))
	assert.False(t, event.Session.Pending)
	assert.Equal(t, domain.StateDiagnosis, event.Session.State)
}

func TestCloseSessionDisconnectsSubscribers(t *testing.T) {
	h := startHub(t)
	a := h.NewConnection(nil, "sess")
	b := h.NewConnection(nil, "sess")
	other := h.NewConnection(nil, "other")
	h.Register(a)
	h.Register(b)
	h.Register(other)

	h.CloseSession("sess")

	_, ok := <-a.Send
	assert.False(t, ok)
	_, ok = <-b.Send
	assert.False(t, ok)
	assert.Equal(t, 0, h.SubscriberCount("sess"))
	assert.Equal(t, 1, h.SubscriberCount("other"))
}
