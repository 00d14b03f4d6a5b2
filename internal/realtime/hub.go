package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/gorilla/websocket"
	"github.com/patrickmn/go-cache"

	"github.com/samandr77/microservices/portal/internal/entity"
	"github.com/samandr77/microservices/portal/pkg/broker"
)

const (
	EventConnectionState = "connection_state"

	streamBuffer = 64

	publishedTTL = time.Minute
)

// lifecycleNamespace seeds the name based IDs of relayed lifecycle events.
var lifecycleNamespace = uuid.Must(uuid.FromString("7b0c6c1e-4f4a-4c43-9d0e-2f5a61d3b8a4"))

//go:generate go run go.uber.org/mock/mockgen@latest -source=hub.go -destination=../mocks/hub.go -package=mocks

type LifecyclePublisher interface {
	PublishLifecycle(ctx context.Context, event broker.LifecycleEvent)
}

type ConnectionState struct {
	State    State  `json:"state"`
	Terminal bool   `json:"terminal,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Stream is one browser connection attached to a session's live connection.
type Stream struct {
	ID     uuid.UUID
	token  string
	events chan entity.Frame
	done   chan struct{}
	once   sync.Once
	rooms  map[entity.Room]struct{}
}

func (s *Stream) Events() <-chan entity.Frame {
	return s.events
}

// Done is closed when the stream is detached or its session is closed.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

func (s *Stream) close() {
	s.once.Do(func() { close(s.done) })
}

func (s *Stream) deliver(frame entity.Frame) {
	select {
	case <-s.done:
	case s.events <- frame:
	default:
		slog.Warn("stream buffer full, dropping frame", "stream_id", s.ID, "event", frame.Event)
	}
}

type sessionConn struct {
	manager *Manager

	mu      sync.Mutex
	session entity.Session
	streams map[uuid.UUID]*Stream
}

// Hub keeps at most one Manager per session token and shares it between the
// browser streams of that session.
type Hub struct {
	cfg           Config
	dialer        *websocket.Dialer
	publisher     LifecyclePublisher
	published     *cache.Cache
	onAuthFailure func(token string)

	mu       sync.Mutex
	sessions map[string]*sessionConn
}

func NewHub(cfg Config, dialer *websocket.Dialer, publisher LifecyclePublisher) *Hub {
	return &Hub{
		cfg:       cfg,
		dialer:    dialer,
		publisher: publisher,
		published: cache.New(publishedTTL, publishedTTL),
		sessions:  make(map[string]*sessionConn),
	}
}

// OnAuthFailure registers the callback run when a session's token is
// rejected on the live connection.
func (h *Hub) OnAuthFailure(fn func(token string)) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.onAuthFailure = fn
}

// Attach registers a new stream for the session and makes sure the session's
// live connection is up.
func (h *Hub) Attach(ctx context.Context, session entity.Session) (*Stream, error) {
	sc := h.sessionConn(session.Token)

	stream := &Stream{
		ID:     uuid.Must(uuid.NewV4()),
		token:  session.Token,
		events: make(chan entity.Frame, streamBuffer),
		done:   make(chan struct{}),
		rooms:  make(map[entity.Room]struct{}),
	}

	sc.mu.Lock()
	sc.session = session
	sc.streams[stream.ID] = stream
	sc.mu.Unlock()

	err := sc.manager.Connect(ctx)
	if err != nil {
		h.Detach(stream)
		return nil, fmt.Errorf("connect: %w", err)
	}

	return stream, nil
}

func (h *Hub) sessionConn(token string) *sessionConn {
	h.mu.Lock()
	defer h.mu.Unlock()

	sc, ok := h.sessions[token]
	if ok {
		return sc
	}

	sc = &sessionConn{
		manager: NewManager(h.cfg, token, h.dialer),
		streams: make(map[uuid.UUID]*Stream),
	}

	sc.manager.On(Handlers{
		entity.EventChatMessage:           func(f entity.Frame) { h.fanout(sc, f) },
		entity.EventTyping:                func(f entity.Frame) { h.fanout(sc, f) },
		entity.EventOrderStatusChanged:    func(f entity.Frame) { h.relay(sc, f) },
		entity.EventDispatchStatusChanged: func(f entity.Frame) { h.relay(sc, f) },
	})
	sc.manager.OnState(func(ev StateEvent) { h.stateChanged(sc, ev) })
	sc.manager.OnAuthFailure(func() { h.authFailed(token) })

	h.sessions[token] = sc

	return sc
}

// Detach removes the stream, leaves rooms no other stream needs and closes
// the live connection once the last stream is gone.
func (h *Hub) Detach(stream *Stream) {
	h.mu.Lock()
	sc, ok := h.sessions[stream.token]
	h.mu.Unlock()

	stream.close()

	if !ok {
		return
	}

	sc.mu.Lock()
	if _, attached := sc.streams[stream.ID]; !attached {
		sc.mu.Unlock()
		return
	}

	delete(sc.streams, stream.ID)

	for room := range stream.rooms {
		if !sc.heldLocked(room) {
			_ = sc.manager.Leave(room)
		}
	}

	last := len(sc.streams) == 0
	sc.mu.Unlock()

	if last {
		h.mu.Lock()
		if h.sessions[stream.token] == sc {
			delete(h.sessions, stream.token)
		}
		h.mu.Unlock()

		sc.manager.Disconnect()
	}
}

func (h *Hub) Join(stream *Stream, room entity.Room) error {
	sc, err := h.lookup(stream)
	if err != nil {
		return err
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()

	err = authorizeRoom(sc.session, room)
	if err != nil {
		return err
	}

	err = sc.manager.Join(room)
	if err != nil {
		return err
	}

	stream.rooms[room] = struct{}{}

	return nil
}

func (h *Hub) Leave(stream *Stream, room entity.Room) error {
	sc, err := h.lookup(stream)
	if err != nil {
		return err
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()

	if _, ok := stream.rooms[room]; !ok {
		return nil
	}

	delete(stream.rooms, room)

	if sc.heldLocked(room) {
		return nil
	}

	return sc.manager.Leave(room)
}

// UpdateSession replaces the session snapshot used for room authorization
// and leaves rooms the new access no longer allows.
func (h *Hub) UpdateSession(session entity.Session) {
	h.mu.Lock()
	sc, ok := h.sessions[session.Token]
	h.mu.Unlock()

	if !ok {
		return
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.session = session

	for _, stream := range sc.streams {
		for room := range stream.rooms {
			if authorizeRoom(session, room) != nil {
				delete(stream.rooms, room)
			}
		}
	}

	for _, room := range sc.manager.Rooms() {
		if !sc.heldLocked(room) {
			_ = sc.manager.Leave(room)
		}
	}
}

// Close tears down the session's live connection and every attached stream.
func (h *Hub) Close(token string) {
	h.mu.Lock()
	sc, ok := h.sessions[token]
	delete(h.sessions, token)
	h.mu.Unlock()

	if !ok {
		return
	}

	sc.manager.Disconnect()

	sc.mu.Lock()
	for id, stream := range sc.streams {
		stream.close()
		delete(sc.streams, id)
	}
	sc.mu.Unlock()
}

// CloseAll is used on shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	tokens := make([]string, 0, len(h.sessions))
	for token := range h.sessions {
		tokens = append(tokens, token)
	}
	h.mu.Unlock()

	for _, token := range tokens {
		h.Close(token)
	}
}

func (h *Hub) Connections() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.sessions)
}

// Rooms returns the rooms joined on the session's live connection.
func (h *Hub) Rooms(token string) []entity.Room {
	h.mu.Lock()
	sc, ok := h.sessions[token]
	h.mu.Unlock()

	if !ok {
		return nil
	}

	return sc.manager.Rooms()
}

func (h *Hub) lookup(stream *Stream) (*sessionConn, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sc, ok := h.sessions[stream.token]
	if !ok {
		return nil, entity.ErrNotConnected
	}

	return sc, nil
}

// fanout delivers the frame to the streams that joined its room. Frames
// without a valid room are dropped.
func (h *Hub) fanout(sc *sessionConn, frame entity.Frame) bool {
	room, err := entity.ParseRoom(frame.Room)
	if err != nil {
		slog.Warn("drop inbound frame", "event", frame.Event, "room", frame.Room, "error", err)
		return false
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()

	for _, stream := range sc.streams {
		if _, ok := stream.rooms[room]; !ok {
			continue
		}

		stream.deliver(frame)
	}

	return true
}

// relay fans the frame out and publishes it once per hub. Every session of a
// pharmacy receives the same backend event, so the ID is derived from its
// content and repeats within publishedTTL are skipped.
func (h *Hub) relay(sc *sessionConn, frame entity.Frame) {
	if !h.fanout(sc, frame) || h.publisher == nil {
		return
	}

	id := lifecycleID(frame)

	err := h.published.Add(id.String(), struct{}{}, cache.DefaultExpiration)
	if err != nil {
		return
	}

	sc.mu.Lock()
	session := sc.session
	sc.mu.Unlock()

	h.publisher.PublishLifecycle(context.Background(), broker.LifecycleEvent{
		ID:         id,
		Event:      frame.Event,
		Room:       frame.Room,
		PharmacyID: session.Org.PharmacyID,
		UserID:     session.User.ID,
		Data:       frame.Data,
		ReceivedAt: time.Now().UTC(),
	})
}

func (h *Hub) stateChanged(sc *sessionConn, ev StateEvent) {
	state := ConnectionState{State: ev.State, Terminal: ev.Terminal}
	if ev.Err != nil {
		state.Error = ev.Err.Error()
	}

	data, _ := json.Marshal(state)
	frame := entity.Frame{Event: EventConnectionState, Data: data}

	sc.mu.Lock()
	defer sc.mu.Unlock()

	// a fresh connection after a terminal drop has no rooms joined either
	if ev.State == StateConnected {
		for _, stream := range sc.streams {
			for room := range stream.rooms {
				err := sc.manager.Join(room)
				if err != nil && !errors.Is(err, entity.ErrNotConnected) {
					slog.Warn("rejoin room", "room", room.String(), "error", err)
				}
			}
		}
	}

	for _, stream := range sc.streams {
		stream.deliver(frame)
	}
}

func lifecycleID(frame entity.Frame) uuid.UUID {
	return uuid.NewV5(lifecycleNamespace, frame.Event+"\n"+frame.Room+"\n"+string(frame.Data))
}

func (h *Hub) authFailed(token string) {
	h.mu.Lock()
	fn := h.onAuthFailure
	h.mu.Unlock()

	if fn != nil {
		fn(token)
		return
	}

	h.Close(token)
}

func (sc *sessionConn) heldLocked(room entity.Room) bool {
	for _, stream := range sc.streams {
		if _, ok := stream.rooms[room]; ok {
			return true
		}
	}

	return false
}

// authorizeRoom restricts pharmacy rooms to the current pharmacy and order
// and dispatch rooms to users who can view orders.
func authorizeRoom(session entity.Session, room entity.Room) error {
	switch room.Kind {
	case entity.RoomPharmacy:
		if session.Org.Empty() || room.ID != session.Org.PharmacyID {
			return fmt.Errorf("%w: room %s", entity.ErrForbidden, room)
		}
	case entity.RoomOrder, entity.RoomDispatch:
		if !session.Access.Can(entity.CategoryOrders, entity.ActionView) {
			return fmt.Errorf("%w: room %s", entity.ErrForbidden, room)
		}
	case entity.RoomChat:
		if session.Org.Empty() {
			return fmt.Errorf("%w: room %s", entity.ErrNotMember, room)
		}
	default:
		return fmt.Errorf("%w: %s", entity.ErrUnknownRoom, room)
	}

	return nil
}
