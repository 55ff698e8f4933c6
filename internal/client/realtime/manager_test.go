package realtime

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchy-app/matchy-client/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// wsServer is a minimal backend double: it records inbound frames and can
// push frames to the most recent connection.
type wsServer struct {
	t        *testing.T
	srv      *httptest.Server
	upgrades atomic.Int32

	mu    sync.Mutex
	conns []*websocket.Conn

	frames chan envelope
}

func newWSServer(t *testing.T) *wsServer {
	t.Helper()
	s := &wsServer{t: t, frames: make(chan envelope, 32)}

	upgrader := websocket.Upgrader{}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		s.upgrades.Add(1)
		s.mu.Lock()
		s.conns = append(s.conns, conn)
		s.mu.Unlock()

		for {
			_, frame, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var env envelope
			if err := json.Unmarshal(frame, &env); err == nil {
				s.frames <- env
			}
		}
	}))
	t.Cleanup(s.srv.Close)
	return s
}

func (s *wsServer) url() string {
	return "ws" + strings.TrimPrefix(s.srv.URL, "http")
}

func (s *wsServer) push(event string, data any) {
	s.mu.Lock()
	conn := s.conns[len(s.conns)-1]
	s.mu.Unlock()

	payload, err := json.Marshal(data)
	require.NoError(s.t, err)
	frame, err := json.Marshal(envelope{Event: event, Data: payload})
	require.NoError(s.t, err)
	require.NoError(s.t, conn.WriteMessage(websocket.TextMessage, frame))
}

func (s *wsServer) dropAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		_ = c.Close()
	}
	s.conns = nil
}

func (s *wsServer) waitFrame(t *testing.T) envelope {
	t.Helper()
	select {
	case env := <-s.frames:
		return env
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
		return envelope{}
	}
}

func fastOpts() Options {
	return Options{ReconnectAttempts: 3, ReconnectDelay: 20 * time.Millisecond}
}

func TestConnectRegistersUser(t *testing.T) {
	srv := newWSServer(t)
	m := NewManager(srv.url(), fastOpts(), testLogger())

	require.NoError(t, m.Connect(context.Background(), "user-1"))
	t.Cleanup(func() { m.Disconnect("user-1") })

	assert.True(t, m.IsConnected())
	assert.Equal(t, StateConnected, m.State())

	env := srv.waitFrame(t)
	assert.Equal(t, EventNewUser, env.Event)

	var userID string
	require.NoError(t, json.Unmarshal(env.Data, &userID))
	assert.Equal(t, "user-1", userID)
}

func TestConnectIsIdempotentForSameUser(t *testing.T) {
	srv := newWSServer(t)
	m := NewManager(srv.url(), fastOpts(), testLogger())

	require.NoError(t, m.Connect(context.Background(), "user-1"))
	require.NoError(t, m.Connect(context.Background(), "user-1"))
	t.Cleanup(func() { m.Disconnect("user-1") })

	assert.Equal(t, int32(1), srv.upgrades.Load(), "one live connection per user")
}

func TestEmitWhenDisconnectedIsNoOp(t *testing.T) {
	m := NewManager("ws://127.0.0.1:1/ws", fastOpts(), testLogger())

	err := m.Emit(EventSendChat, map[string]string{"content": "hi"})
	assert.NoError(t, err)
	assert.Equal(t, StateDisconnected, m.State())
}

func TestDisconnectEmitsLogoutAndIsIdempotent(t *testing.T) {
	srv := newWSServer(t)
	m := NewManager(srv.url(), fastOpts(), testLogger())

	require.NoError(t, m.Connect(context.Background(), "user-1"))
	env := srv.waitFrame(t)
	require.Equal(t, EventNewUser, env.Event)

	m.Disconnect("user-1")
	env = srv.waitFrame(t)
	assert.Equal(t, EventLogout, env.Event)
	assert.Equal(t, StateDisconnected, m.State())

	// Second call must be harmless.
	m.Disconnect("user-1")
	assert.Equal(t, StateDisconnected, m.State())
}

func TestInboundEventsAreDispatched(t *testing.T) {
	srv := newWSServer(t)
	m := NewManager(srv.url(), fastOpts(), testLogger())

	received := make(chan string, 1)
	m.On(EventReceiveChat, func(data json.RawMessage) {
		var payload struct {
			Content string `json:"content"`
		}
		_ = json.Unmarshal(data, &payload)
		received <- payload.Content
	})

	require.NoError(t, m.Connect(context.Background(), "user-1"))
	t.Cleanup(func() { m.Disconnect("user-1") })
	srv.waitFrame(t) // registration

	srv.push(EventReceiveChat, map[string]string{"content": "hello there"})

	select {
	case got := <-received:
		assert.Equal(t, "hello there", got)
	case <-time.After(2 * time.Second):
		t.Fatal("handler never invoked")
	}
}

func TestEmitCarriesEnvelope(t *testing.T) {
	srv := newWSServer(t)
	m := NewManager(srv.url(), fastOpts(), testLogger())

	require.NoError(t, m.Connect(context.Background(), "user-1"))
	t.Cleanup(func() { m.Disconnect("user-1") })
	srv.waitFrame(t) // registration

	require.NoError(t, m.Emit(EventMarkSeen, map[string]string{"matchId": "m1"}))

	env := srv.waitFrame(t)
	assert.Equal(t, EventMarkSeen, env.Event)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Equal(t, "m1", payload["matchId"])
}

func TestReconnectAfterDropReRegisters(t *testing.T) {
	srv := newWSServer(t)
	m := NewManager(srv.url(), fastOpts(), testLogger())

	require.NoError(t, m.Connect(context.Background(), "user-1"))
	t.Cleanup(func() { m.Disconnect("user-1") })

	env := srv.waitFrame(t)
	require.Equal(t, EventNewUser, env.Event)

	srv.dropAll()

	// The transport redials and registration is sent again.
	env = srv.waitFrame(t)
	assert.Equal(t, EventNewUser, env.Event)

	require.Eventually(t, m.IsConnected, 2*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, srv.upgrades.Load(), int32(2))
}

func TestReconnectGivesUpAfterBoundedAttempts(t *testing.T) {
	srv := newWSServer(t)
	m := NewManager(srv.url(), Options{ReconnectAttempts: 2, ReconnectDelay: 10 * time.Millisecond}, testLogger())

	require.NoError(t, m.Connect(context.Background(), "user-1"))
	srv.waitFrame(t)

	// Kill the server entirely so every redial fails.
	srv.dropAll()
	srv.srv.Close()

	require.Eventually(t, func() bool {
		return m.State() == StateDisconnected
	}, 3*time.Second, 20*time.Millisecond)

	// Emitting afterwards stays a silent no-op.
	assert.NoError(t, m.Emit(EventSendChat, map[string]string{"content": "lost"}))
}
