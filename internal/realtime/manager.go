package realtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sethvargo/go-retry"

	"github.com/samandr77/microservices/portal/internal/entity"
	"github.com/samandr77/microservices/portal/internal/schema"
)

const writeWait = 5 * time.Second

type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
)

// StateEvent is reported on every state transition. DroppedRooms is set on
// the disconnect that cleared them and again on the reconnect that follows.
type StateEvent struct {
	State        State
	Reconnected  bool
	Terminal     bool
	Err          error
	DroppedRooms []entity.Room
}

type Handler func(frame entity.Frame)

type Handlers map[string]Handler

type Config struct {
	URL              string
	MaxReconnects    uint64
	ReconnectDelay   time.Duration
	ReconnectMax     time.Duration
	HandshakeTimeout time.Duration
	AckTimeout       time.Duration
}

// Manager owns a single live connection to the backend for one session.
type Manager struct {
	cfg    Config
	token  string
	dialer *websocket.Dialer
	l      *slog.Logger

	onState       func(StateEvent)
	onAuthFailure func()

	mu       sync.Mutex
	state    State
	conn     *websocket.Conn
	epoch    uint64
	cancel   context.CancelFunc
	pending  *attempt
	rooms    map[entity.Room]struct{}
	handlers Handlers
}

// attempt is the outcome of one connect or reconnect cycle, shared with
// callers that arrive while it is in progress.
type attempt struct {
	done chan struct{}
	err  error
}

func newAttempt() *attempt {
	return &attempt{done: make(chan struct{})}
}

func (a *attempt) finish(err error) {
	a.err = err
	close(a.done)
}

func (a *attempt) wait(ctx context.Context) error {
	if a == nil {
		return nil
	}

	select {
	case <-a.done:
		return a.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func NewManager(cfg Config, token string, dialer *websocket.Dialer) *Manager {
	if dialer == nil {
		dialer = &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: cfg.HandshakeTimeout,
		}
	}

	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 500 * time.Millisecond
	}

	if cfg.ReconnectMax < cfg.ReconnectDelay {
		cfg.ReconnectMax = cfg.ReconnectDelay
	}

	if cfg.AckTimeout <= 0 {
		cfg.AckTimeout = 5 * time.Second
	}

	return &Manager{
		cfg:      cfg,
		token:    token,
		dialer:   dialer,
		l:        slog.Default().WithGroup("realtime"),
		state:    StateDisconnected,
		rooms:    make(map[entity.Room]struct{}),
		handlers: make(Handlers),
	}
}

// OnState registers the transition listener. It is called outside the lock
// and may be called from the read goroutine.
func (m *Manager) OnState(fn func(StateEvent)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onState = fn
}

// OnAuthFailure registers the callback invoked when the backend rejects the
// token during a handshake.
func (m *Manager) OnAuthFailure(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onAuthFailure = fn
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

// Connect opens the live connection and waits for the server ack. While a
// connection is being established it waits for that attempt instead and
// returns its result.
func (m *Manager) Connect(ctx context.Context) error {
	m.mu.Lock()
	switch m.state {
	case StateConnected:
		m.mu.Unlock()
		return nil
	case StateConnecting:
		pending := m.pending
		m.mu.Unlock()

		return pending.wait(ctx)
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	pending := newAttempt()
	m.state = StateConnecting
	m.cancel = cancel
	m.pending = pending
	m.mu.Unlock()

	m.notify(StateEvent{State: StateConnecting})

	err := m.connectOnce(ctx, loopCtx)
	if err != nil {
		m.mu.Lock()
		if m.state == StateConnecting && m.pending == pending {
			m.state = StateDisconnected
			m.cancel = nil
		}
		m.finishLocked(pending, err)
		m.mu.Unlock()

		cancel()
		m.notify(StateEvent{State: StateDisconnected, Err: err})

		return err
	}

	m.mu.Lock()
	m.finishLocked(pending, nil)
	m.mu.Unlock()

	m.notify(StateEvent{State: StateConnected})

	return nil
}

func (m *Manager) finishLocked(a *attempt, err error) {
	if m.pending == a {
		m.pending = nil
	}

	a.finish(err)
}

// Disconnect closes the connection, stops reconnect attempts and clears
// room membership.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	if m.state == StateDisconnected && m.cancel == nil {
		m.mu.Unlock()
		return
	}

	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	conn := m.conn
	m.conn = nil
	m.epoch++
	m.state = StateDisconnected
	clear(m.rooms)

	if conn != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
		_ = conn.Close()
	}
	m.mu.Unlock()

	m.notify(StateEvent{State: StateDisconnected})
}

// Reconnect drops the current connection and connects again with handlers
// replacing every previously registered one.
func (m *Manager) Reconnect(ctx context.Context, handlers Handlers) error {
	m.Disconnect()

	m.mu.Lock()
	m.handlers = make(Handlers, len(handlers))
	for event, h := range handlers {
		m.handlers[event] = h
	}
	m.mu.Unlock()

	return m.Connect(ctx)
}

// On merges handlers into the registered set. A later registration for an
// event name wins.
func (m *Manager) On(handlers Handlers) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for event, h := range handlers {
		m.handlers[event] = h
	}
}

func (m *Manager) Join(room entity.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateConnected || m.conn == nil {
		return entity.ErrNotConnected
	}

	if _, ok := m.rooms[room]; ok {
		return nil
	}

	err := m.writeLocked(entity.Frame{Event: entity.EventJoin, Room: room.String()})
	if err != nil {
		return fmt.Errorf("join %s: %w", room, err)
	}

	m.rooms[room] = struct{}{}

	return nil
}

// Leave is a no-op for rooms that were never joined.
func (m *Manager) Leave(room entity.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rooms[room]; !ok {
		return nil
	}

	delete(m.rooms, room)

	if m.state != StateConnected || m.conn == nil {
		return nil
	}

	err := m.writeLocked(entity.Frame{Event: entity.EventLeave, Room: room.String()})
	if err != nil {
		return fmt.Errorf("leave %s: %w", room, err)
	}

	return nil
}

func (m *Manager) Rooms() []entity.Room {
	m.mu.Lock()
	defer m.mu.Unlock()

	return sortedRooms(m.rooms)
}

func (m *Manager) writeLocked(frame entity.Frame) error {
	_ = m.conn.SetWriteDeadline(time.Now().Add(writeWait))

	return m.conn.WriteJSON(frame)
}

// connectOnce dials, waits for the ack and starts the read loop. loopCtx
// belongs to the current Connect call and is cancelled by Disconnect.
func (m *Manager) connectOnce(ctx, loopCtx context.Context) error {
	conn, err := m.dial(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if loopCtx.Err() != nil {
		m.mu.Unlock()
		_ = conn.Close()

		return loopCtx.Err()
	}

	m.conn = conn
	m.state = StateConnected
	m.epoch++
	epoch := m.epoch
	m.mu.Unlock()

	go m.readLoop(loopCtx, conn, epoch)

	return nil
}

func (m *Manager) dial(ctx context.Context) (*websocket.Conn, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+m.token)

	if m.cfg.HandshakeTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, m.cfg.HandshakeTimeout)
		defer cancel()
	}

	conn, resp, err := m.dialer.DialContext(ctx, m.cfg.URL, header)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}

	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			m.authFailed()
			return nil, fmt.Errorf("%w: handshake status %d", entity.ErrUnauthorized, resp.StatusCode)
		}

		return nil, fmt.Errorf("dial: %w", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(m.cfg.AckTimeout))

	_, data, err := conn.ReadMessage()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("wait ack: %w", err)
	}

	ack := schema.Decode[entity.Frame](data)
	if !ack.OK() || ack.Value.Event != entity.EventConnected {
		_ = conn.Close()
		return nil, fmt.Errorf("wait ack: unexpected frame %q", data)
	}

	_ = conn.SetReadDeadline(time.Time{})

	return conn, nil
}

func (m *Manager) readLoop(ctx context.Context, conn *websocket.Conn, epoch uint64) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			m.dropped(ctx, epoch, err)
			return
		}

		res := schema.Decode[entity.Frame](data)
		if !res.OK() {
			m.l.Warn("skip inbound frame", "error", res.Err)
			continue
		}

		m.dispatch(res.Value)
	}
}

// dispatch delivers the frame to the handler registered last for its event.
func (m *Manager) dispatch(frame entity.Frame) {
	m.mu.Lock()
	h := m.handlers[frame.Event]
	m.mu.Unlock()

	if h == nil {
		m.l.Debug("no handler for event", "event", frame.Event)
		return
	}

	h(frame)
}

func (m *Manager) dropped(ctx context.Context, epoch uint64, cause error) {
	m.mu.Lock()
	if m.epoch != epoch || m.state != StateConnected {
		m.mu.Unlock()
		return
	}

	rooms := sortedRooms(m.rooms)
	clear(m.rooms)
	_ = m.conn.Close()
	m.conn = nil
	m.state = StateConnecting
	pending := newAttempt()
	m.pending = pending
	m.mu.Unlock()

	m.l.Warn("connection lost", "error", cause, "rooms", len(rooms))
	m.notify(StateEvent{State: StateDisconnected, Err: cause, DroppedRooms: rooms})

	err := m.reconnect(ctx, rooms)

	m.mu.Lock()
	m.finishLocked(pending, err)
	m.mu.Unlock()
}

func (m *Manager) reconnect(ctx context.Context, rooms []entity.Room) error {
	backoff := retry.NewExponential(m.cfg.ReconnectDelay)
	backoff = retry.WithCappedDuration(m.cfg.ReconnectMax, backoff)
	backoff = retry.WithMaxRetries(m.cfg.MaxReconnects, backoff)

	m.notify(StateEvent{State: StateConnecting})

	attempt := 0

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++

		err := m.connectOnce(ctx, ctx)
		if err == nil {
			return nil
		}

		m.l.Warn("reconnect failed", "attempt", attempt, "error", err)

		if errors.Is(err, entity.ErrUnauthorized) || ctx.Err() != nil {
			return err
		}

		return retry.RetryableError(err)
	})
	if err == nil {
		m.notify(StateEvent{State: StateConnected, Reconnected: true, DroppedRooms: rooms})
		return nil
	}

	if ctx.Err() != nil {
		// explicit disconnect
		return entity.ErrNotConnected
	}

	m.mu.Lock()
	m.state = StateDisconnected
	m.cancel = nil
	m.mu.Unlock()

	if !errors.Is(err, entity.ErrUnauthorized) {
		err = fmt.Errorf("%w: %w", entity.ErrReconnectLimit, err)
	}

	m.notify(StateEvent{State: StateDisconnected, Terminal: true, Err: err, DroppedRooms: rooms})

	return err
}

func (m *Manager) notify(ev StateEvent) {
	m.mu.Lock()
	fn := m.onState
	m.mu.Unlock()

	if fn != nil {
		fn(ev)
	}
}

func (m *Manager) authFailed() {
	m.mu.Lock()
	fn := m.onAuthFailure
	m.mu.Unlock()

	if fn != nil {
		go fn()
	}
}

func sortedRooms(set map[entity.Room]struct{}) []entity.Room {
	rooms := make([]entity.Room, 0, len(set))
	for r := range set {
		rooms = append(rooms, r)
	}

	slices.SortFunc(rooms, func(a, b entity.Room) int {
		return strings.Compare(a.String(), b.String())
	})

	return rooms
}
