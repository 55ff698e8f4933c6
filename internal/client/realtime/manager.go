// Package realtime owns the client's single websocket session with the
// Matchy backend.
//
// Lifecycle: Disconnected -> Connecting -> Connected, with Reconnecting
// entered after an unexpected drop. The manager registers the user on
// connect, emits a leave notice on disconnect, and dispatches inbound events
// to registered handlers. It only reflects connection state; the bounded
// retry policy lives in the transport loop, not in callers.
package realtime

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/sethvargo/go-retry"

	"github.com/matchy-app/matchy-client/internal/logging"
)

type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateReconnecting
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	}
	return "unknown"
}

// Options tunes the transport. Zero values fall back to the defaults the
// backend expects: 5 reconnect attempts at a fixed 1s delay.
type Options struct {
	ReconnectAttempts uint64
	ReconnectDelay    time.Duration
	HandshakeTimeout  time.Duration
}

func (o *Options) withDefaults() Options {
	out := *o
	if out.ReconnectAttempts == 0 {
		out.ReconnectAttempts = 5
	}
	if out.ReconnectDelay == 0 {
		out.ReconnectDelay = time.Second
	}
	if out.HandshakeTimeout == 0 {
		out.HandshakeTimeout = 10 * time.Second
	}
	return out
}

// Manager holds at most one live connection per logged-in user. Feature
// code receives it as an emit/listen capability, never as a raw handle.
type Manager struct {
	url  string
	opts Options
	log  logging.Logger

	state atomic.Int32

	mu     sync.Mutex // guards conn, userID, stop
	conn   *websocket.Conn
	userID string
	stop   chan struct{}

	writeMu sync.Mutex

	handlerMu sync.RWMutex
	handlers  map[string][]Handler
}

func NewManager(url string, opts Options, log logging.Logger) *Manager {
	return &Manager{
		url:      url,
		opts:     opts.withDefaults(),
		log:      log.With("component", "realtime"),
		handlers: make(map[string][]Handler),
	}
}

func (m *Manager) State() State {
	return State(m.state.Load())
}

func (m *Manager) IsConnected() bool {
	return m.State() == StateConnected
}

// On registers a handler for an inbound event. Registration is append-only;
// handlers installed by feature services live for the manager's lifetime.
func (m *Manager) On(event string, h Handler) {
	m.handlerMu.Lock()
	defer m.handlerMu.Unlock()
	m.handlers[event] = append(m.handlers[event], h)
}

// Connect opens the transport and registers userID with the server.
// A no-op when a connection for this user is already live.
func (m *Manager) Connect(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn != nil && m.State() == StateConnected && m.userID == userID {
		return nil
	}
	if m.conn != nil {
		m.teardownLocked(false)
	}

	m.state.Store(int32(StateConnecting))

	conn, err := m.dial(ctx)
	if err != nil {
		m.state.Store(int32(StateDisconnected))
		return fmt.Errorf("realtime connect: %w", err)
	}

	m.setConn(conn)
	m.userID = userID
	m.stop = make(chan struct{})

	if err := m.write(EventNewUser, userID); err != nil {
		m.teardownLocked(false)
		m.state.Store(int32(StateDisconnected))
		return fmt.Errorf("register user: %w", err)
	}

	m.state.Store(int32(StateConnected))
	m.log.Info(ctx, "socket connected", "userID", userID)

	go m.readLoop(conn, m.stop)
	return nil
}

// Disconnect emits the leave notice and tears the transport down.
// Safe to call repeatedly.
func (m *Manager) Disconnect(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil {
		m.state.Store(int32(StateDisconnected))
		return
	}

	// Best effort: the server drops the registration on close anyway.
	_ = m.write(EventLogout, userID)
	m.teardownLocked(true)
	m.state.Store(int32(StateDisconnected))
	m.log.Info(context.Background(), "socket disconnected", "userID", userID)
}

// Emit sends one event. Dropped silently when the session is not connected;
// user-initiated actions should check IsConnected first to surface that.
func (m *Manager) Emit(event string, data any) error {
	if !m.IsConnected() {
		m.log.Debug(context.Background(), "emit dropped, not connected", "event", event)
		return nil
	}
	return m.write(event, data)
}

func (m *Manager) dial(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: m.opts.HandshakeTimeout}
	conn, resp, err := dialer.DialContext(ctx, m.url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s (status %d): %w", m.url, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("dial %s: %w", m.url, err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return conn, nil
}

func (m *Manager) write(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", event, err)
	}
	frame, err := json.Marshal(envelope{Event: event, Data: payload})
	if err != nil {
		return fmt.Errorf("encode %s frame: %w", event, err)
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	conn := m.conn
	if conn == nil {
		return nil
	}
	if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		return fmt.Errorf("write %s: %w", event, err)
	}
	return nil
}

// setConn publishes the connection for writers. Lock order is always
// m.mu before writeMu.
func (m *Manager) setConn(conn *websocket.Conn) {
	m.writeMu.Lock()
	m.conn = conn
	m.writeMu.Unlock()
}

// teardownLocked closes the transport. Callers hold m.mu.
func (m *Manager) teardownLocked(graceful bool) {
	if m.stop != nil {
		close(m.stop)
		m.stop = nil
	}
	if m.conn != nil {
		if graceful {
			_ = m.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
		}
		conn := m.conn
		m.setConn(nil)
		_ = conn.Close()
	}
}

// readLoop pumps inbound frames and dispatches them in arrival order.
// On an unexpected drop it runs the bounded reconnect sequence; on an
// intentional disconnect (stop closed) it simply exits.
func (m *Manager) readLoop(conn *websocket.Conn, stop chan struct{}) {
	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-stop:
				return
			default:
			}

			next, ok := m.reconnect(stop)
			if !ok {
				return
			}
			conn = next
			continue
		}

		var env envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			m.log.Warn(context.Background(), "unreadable frame dropped", "error", err)
			continue
		}
		m.dispatch(env)
	}
}

func (m *Manager) dispatch(env envelope) {
	m.handlerMu.RLock()
	handlers := m.handlers[env.Event]
	m.handlerMu.RUnlock()

	for _, h := range handlers {
		h(env.Data)
	}
}

// reconnect redials with a fixed delay and a bounded attempt count, then
// re-registers the user. Returns the new connection, or false when the
// attempts are exhausted or the session was closed meanwhile.
func (m *Manager) reconnect(stop chan struct{}) (*websocket.Conn, bool) {
	m.state.Store(int32(StateReconnecting))
	m.log.Warn(context.Background(), "connection dropped, reconnecting",
		"attempts", m.opts.ReconnectAttempts, "delay", m.opts.ReconnectDelay)

	var conn *websocket.Conn
	backoff := retry.WithMaxRetries(m.opts.ReconnectAttempts-1, retry.NewConstant(m.opts.ReconnectDelay))

	err := retry.Do(context.Background(), backoff, func(ctx context.Context) error {
		select {
		case <-stop:
			return fmt.Errorf("session closed")
		default:
		}

		c, err := m.dial(ctx)
		if err != nil {
			return retry.RetryableError(err)
		}
		conn = c
		return nil
	})
	if err != nil {
		m.mu.Lock()
		m.setConn(nil)
		m.mu.Unlock()
		m.state.Store(int32(StateDisconnected))
		m.log.Error(context.Background(), "reconnect failed", "error", err)
		return nil, false
	}

	m.mu.Lock()
	select {
	case <-stop:
		// Disconnected while redialing; discard the fresh transport.
		m.mu.Unlock()
		_ = conn.Close()
		return nil, false
	default:
	}
	m.setConn(conn)
	userID := m.userID
	m.mu.Unlock()

	if err := m.write(EventNewUser, userID); err != nil {
		m.log.Error(context.Background(), "re-registration failed", "error", err)
	}
	m.state.Store(int32(StateConnected))
	m.log.Info(context.Background(), "socket reconnected", "userID", userID)
	return conn, true
}
