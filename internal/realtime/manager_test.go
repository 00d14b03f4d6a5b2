package realtime_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/samandr77/microservices/portal/internal/entity"
	"github.com/samandr77/microservices/portal/internal/realtime"
)

const (
	testToken  = "token-1"
	otherToken = "token-2"
)

type backend struct {
	srv      *httptest.Server
	upgrader websocket.Upgrader

	reject   atomic.Int32
	skipAck  atomic.Bool
	ackDelay atomic.Int64
	accepts  atomic.Int32

	mu     sync.Mutex
	conns  []*websocket.Conn
	frames chan entity.Frame
}

func newBackend(t *testing.T) *backend {
	t.Helper()

	b := &backend{frames: make(chan entity.Frame, 64)}

	b.srv = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(func() {
		b.dropAll()
		b.srv.Close()
	})

	return b
}

func (b *backend) serve(w http.ResponseWriter, r *http.Request) {
	if code := b.reject.Load(); code != 0 {
		http.Error(w, "rejected", int(code))
		return
	}

	auth := r.Header.Get("Authorization")
	if auth != "Bearer "+testToken && auth != "Bearer "+otherToken {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	b.accepts.Add(1)

	time.Sleep(time.Duration(b.ackDelay.Load()))

	b.mu.Lock()
	b.conns = append(b.conns, conn)
	if !b.skipAck.Load() {
		_ = conn.WriteJSON(entity.Frame{Event: entity.EventConnected})
	}
	b.mu.Unlock()

	go func() {
		for {
			var f entity.Frame

			err := conn.ReadJSON(&f)
			if err != nil {
				return
			}

			b.frames <- f
		}
	}()
}

func (b *backend) url() string {
	return "ws" + strings.TrimPrefix(b.srv.URL, "http")
}

func (b *backend) push(t *testing.T, frame entity.Frame) {
	t.Helper()

	b.mu.Lock()
	defer b.mu.Unlock()

	require.NotEmpty(t, b.conns)
	require.NoError(t, b.conns[len(b.conns)-1].WriteJSON(frame))
}

func (b *backend) pushAll(t *testing.T, frame entity.Frame) {
	t.Helper()

	b.mu.Lock()
	defer b.mu.Unlock()

	require.NotEmpty(t, b.conns)

	for _, c := range b.conns {
		require.NoError(t, c.WriteJSON(frame))
	}
}

func (b *backend) dropAll() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, c := range b.conns {
		_ = c.Close()
	}

	b.conns = nil
}

func (b *backend) nextFrame(t *testing.T) entity.Frame {
	t.Helper()

	select {
	case f := <-b.frames:
		return f
	case <-time.After(2 * time.Second):
		t.Fatal("no frame received")
		return entity.Frame{}
	}
}

func (b *backend) noFrame(t *testing.T) {
	t.Helper()

	select {
	case f := <-b.frames:
		t.Fatalf("unexpected frame %+v", f)
	case <-time.After(50 * time.Millisecond):
	}
}

func testConfig(url string) realtime.Config {
	return realtime.Config{
		URL:              url,
		MaxReconnects:    3,
		ReconnectDelay:   10 * time.Millisecond,
		ReconnectMax:     20 * time.Millisecond,
		HandshakeTimeout: time.Second,
		AckTimeout:       200 * time.Millisecond,
	}
}

type stateRecorder struct {
	ch chan realtime.StateEvent
}

func newStateRecorder(m *realtime.Manager) *stateRecorder {
	r := &stateRecorder{ch: make(chan realtime.StateEvent, 64)}
	m.OnState(func(ev realtime.StateEvent) { r.ch <- ev })

	return r
}

func (r *stateRecorder) waitFor(t *testing.T, match func(realtime.StateEvent) bool) realtime.StateEvent {
	t.Helper()

	deadline := time.After(3 * time.Second)

	for {
		select {
		case ev := <-r.ch:
			if match(ev) {
				return ev
			}
		case <-deadline:
			t.Fatal("state event not observed")
			return realtime.StateEvent{}
		}
	}
}

func TestManager_JoinLeave(t *testing.T) {
	t.Parallel()

	b := newBackend(t)
	m := realtime.NewManager(testConfig(b.url()), testToken, nil)

	require.Equal(t, realtime.StateDisconnected, m.State())
	require.ErrorIs(t, m.Join(entity.OrderRoom("o-1")), entity.ErrNotConnected)

	require.NoError(t, m.Connect(context.Background()))
	require.Equal(t, realtime.StateConnected, m.State())

	room := entity.OrderRoom("o-1")

	require.NoError(t, m.Join(room))
	require.Equal(t, entity.Frame{Event: entity.EventJoin, Room: "order:o-1"}, b.nextFrame(t))

	require.NoError(t, m.Join(room))
	require.Len(t, m.Rooms(), 1)
	b.noFrame(t)

	require.NoError(t, m.Leave(entity.ChatRoom("never-joined")))
	b.noFrame(t)

	require.NoError(t, m.Join(entity.ChatRoom("t-1")))
	require.Equal(t, entity.Frame{Event: entity.EventJoin, Room: "chat:t-1"}, b.nextFrame(t))
	require.Equal(t, []entity.Room{entity.ChatRoom("t-1"), room}, m.Rooms())

	require.NoError(t, m.Leave(room))
	require.Equal(t, entity.Frame{Event: entity.EventLeave, Room: "order:o-1"}, b.nextFrame(t))
	require.Equal(t, []entity.Room{entity.ChatRoom("t-1")}, m.Rooms())

	m.Disconnect()
	require.Equal(t, realtime.StateDisconnected, m.State())
	require.Empty(t, m.Rooms())
}

func TestManager_ConnectIsReused(t *testing.T) {
	t.Parallel()

	b := newBackend(t)
	m := realtime.NewManager(testConfig(b.url()), testToken, nil)

	require.NoError(t, m.Connect(context.Background()))
	require.NoError(t, m.Connect(context.Background()))
	require.EqualValues(t, 1, b.accepts.Load())

	m.Disconnect()
	m.Disconnect()
}

func TestManager_Handlers(t *testing.T) {
	t.Parallel()

	b := newBackend(t)
	m := realtime.NewManager(testConfig(b.url()), testToken, nil)

	first := make(chan entity.Frame, 1)
	second := make(chan entity.Frame, 1)
	typing := make(chan entity.Frame, 1)

	m.On(realtime.Handlers{entity.EventChatMessage: func(f entity.Frame) { first <- f }})
	m.On(realtime.Handlers{entity.EventChatMessage: func(f entity.Frame) { second <- f }})
	m.On(realtime.Handlers{entity.EventTyping: func(f entity.Frame) { typing <- f }})

	require.NoError(t, m.Connect(context.Background()))

	b.push(t, entity.Frame{Event: entity.EventChatMessage, Room: "chat:t-1", Data: []byte(`{"id":"m-1"}`)})
	b.push(t, entity.Frame{Event: entity.EventTyping, Room: "chat:t-1"})

	select {
	case f := <-second:
		require.Equal(t, "chat:t-1", f.Room)
		require.JSONEq(t, `{"id":"m-1"}`, string(f.Data))
	case <-time.After(2 * time.Second):
		t.Fatal("latest handler not called")
	}

	select {
	case <-typing:
	case <-time.After(2 * time.Second):
		t.Fatal("merged handler not called")
	}

	require.Empty(t, first)

	replaced := make(chan entity.Frame, 1)
	require.NoError(t, m.Reconnect(context.Background(), realtime.Handlers{
		entity.EventTyping: func(f entity.Frame) { replaced <- f },
	}))

	b.push(t, entity.Frame{Event: entity.EventChatMessage, Room: "chat:t-1"})
	b.push(t, entity.Frame{Event: entity.EventTyping, Room: "chat:t-1"})

	select {
	case <-replaced:
	case <-time.After(2 * time.Second):
		t.Fatal("replacement handler not called")
	}

	require.Empty(t, second)
	require.Empty(t, typing)

	m.Disconnect()
}

func TestManager_DropClearsRoomsAndReconnects(t *testing.T) {
	t.Parallel()

	b := newBackend(t)
	m := realtime.NewManager(testConfig(b.url()), testToken, nil)
	states := newStateRecorder(m)

	require.NoError(t, m.Connect(context.Background()))
	require.NoError(t, m.Join(entity.PharmacyRoom("p-1")))
	b.nextFrame(t)

	b.dropAll()

	dropped := states.waitFor(t, func(ev realtime.StateEvent) bool {
		return ev.State == realtime.StateDisconnected
	})
	require.Equal(t, []entity.Room{entity.PharmacyRoom("p-1")}, dropped.DroppedRooms)
	require.False(t, dropped.Terminal)

	reconnected := states.waitFor(t, func(ev realtime.StateEvent) bool {
		return ev.State == realtime.StateConnected
	})
	require.True(t, reconnected.Reconnected)
	require.Equal(t, []entity.Room{entity.PharmacyRoom("p-1")}, reconnected.DroppedRooms)

	require.Equal(t, realtime.StateConnected, m.State())
	require.Empty(t, m.Rooms())
	require.EqualValues(t, 2, b.accepts.Load())

	m.Disconnect()
}

func TestManager_ReconnectIsBounded(t *testing.T) {
	t.Parallel()

	b := newBackend(t)
	m := realtime.NewManager(testConfig(b.url()), testToken, nil)
	states := newStateRecorder(m)

	require.NoError(t, m.Connect(context.Background()))

	b.reject.Store(http.StatusServiceUnavailable)
	b.dropAll()

	terminal := states.waitFor(t, func(ev realtime.StateEvent) bool {
		return ev.Terminal
	})
	require.Equal(t, realtime.StateDisconnected, terminal.State)
	require.ErrorIs(t, terminal.Err, entity.ErrReconnectLimit)
	require.Equal(t, realtime.StateDisconnected, m.State())

	b.reject.Store(0)
	require.NoError(t, m.Connect(context.Background()))
	require.Equal(t, realtime.StateConnected, m.State())

	m.Disconnect()
}

func TestManager_AuthFailure(t *testing.T) {
	t.Parallel()

	b := newBackend(t)
	m := realtime.NewManager(testConfig(b.url()), "wrong-token", nil)

	called := make(chan struct{}, 1)
	m.OnAuthFailure(func() { called <- struct{}{} })

	err := m.Connect(context.Background())
	require.ErrorIs(t, err, entity.ErrUnauthorized)
	require.Equal(t, realtime.StateDisconnected, m.State())

	select {
	case <-called:
	case <-time.After(2 * time.Second):
		t.Fatal("auth failure callback not called")
	}
}

func TestManager_ConcurrentConnectWaits(t *testing.T) {
	t.Parallel()

	b := newBackend(t)
	b.ackDelay.Store(int64(150 * time.Millisecond))

	m := realtime.NewManager(testConfig(b.url()), testToken, nil)
	t.Cleanup(m.Disconnect)

	first := make(chan error, 1)

	go func() { first <- m.Connect(context.Background()) }()

	require.Eventually(t, func() bool {
		return m.State() == realtime.StateConnecting
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, m.Connect(context.Background()))
	require.Equal(t, realtime.StateConnected, m.State())
	require.NoError(t, m.Join(entity.ChatRoom("t-1")))
	require.NoError(t, <-first)
	require.EqualValues(t, 1, b.accepts.Load())
}

func TestManager_ConcurrentConnectSharesFailure(t *testing.T) {
	t.Parallel()

	b := newBackend(t)
	b.skipAck.Store(true)

	m := realtime.NewManager(testConfig(b.url()), testToken, nil)

	first := make(chan error, 1)

	go func() { first <- m.Connect(context.Background()) }()

	require.Eventually(t, func() bool {
		return m.State() == realtime.StateConnecting
	}, time.Second, 5*time.Millisecond)

	require.Error(t, m.Connect(context.Background()))
	require.Error(t, <-first)
	require.Equal(t, realtime.StateDisconnected, m.State())
}

func TestManager_NoAck(t *testing.T) {
	t.Parallel()

	b := newBackend(t)
	b.skipAck.Store(true)

	m := realtime.NewManager(testConfig(b.url()), testToken, nil)

	err := m.Connect(context.Background())
	require.Error(t, err)
	require.Equal(t, realtime.StateDisconnected, m.State())
}
