package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"

	"github.com/samandr77/microservices/portal/internal/entity"
	"github.com/samandr77/microservices/portal/internal/realtime"
	"github.com/samandr77/microservices/portal/internal/schema"
)

const (
	streamWriteWait      = 10 * time.Second
	streamPongWait       = 60 * time.Second
	streamPingPeriod     = streamPongWait * 9 / 10
	streamMaxMessageSize = 4096
)

type streamError struct {
	Message string `json:"message"`
}

func newUpgrader(allowedOrigins []string) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*") {
				return true
			}

			return slices.Contains(allowedOrigins, origin)
		},
	}
}

// Realtime upgrades the request to a websocket stream attached to the
// session's live backend connection. The client sends join/leave frames and
// receives events of the rooms it holds.
//
// @Summary Realtime stream
// @Description Websocket upgrade. The token may be passed as the access_token query argument
// @Tags realtime
// @Param access_token query string false "Bearer token for clients that cannot set headers"
// @Success 101
// @Failure 401 {object} ErrorResponse "Invalid or expired token"
// @Failure 500 {object} ErrorResponse "Realtime connection failed"
// @Router /v1/realtime [get]
// @Security BearerAuth
func (h *Handler) Realtime(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, err := entity.SessionFromCtx(ctx)
	if err != nil {
		sendServiceErr(ctx, w, err, "")
		return
	}

	stream, err := h.hub.Attach(ctx, session)
	if err != nil {
		sendServiceErr(ctx, w, err, "Realtime connection failed")
		return
	}
	defer h.hub.Detach(stream)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(ctx, "upgrade realtime stream", "error", err)
		return
	}
	defer conn.Close()

	slog.InfoContext(ctx, "realtime stream opened", "stream_id", stream.ID)

	replies := make(chan entity.Frame, 8)
	quit := make(chan struct{})
	readDone := make(chan struct{})

	go func() {
		defer close(readDone)
		h.readCommands(ctx, conn, stream, replies, quit)
	}()

	h.writeFrames(ctx, conn, stream, replies, readDone)
	close(quit)

	slog.InfoContext(ctx, "realtime stream closed", "stream_id", stream.ID)
}

func (h *Handler) readCommands(
	ctx context.Context,
	conn *websocket.Conn,
	stream *realtime.Stream,
	replies chan<- entity.Frame,
	quit <-chan struct{},
) {
	conn.SetReadLimit(streamMaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.WarnContext(ctx, "read realtime stream", "error", err)
			}

			return
		}

		reply := h.command(stream, data)

		select {
		case replies <- reply:
		case <-quit:
			return
		}
	}
}

// command applies one client frame and returns the frame to answer with:
// the command itself on success, an error frame otherwise.
func (h *Handler) command(stream *realtime.Stream, data []byte) entity.Frame {
	frame, err := schema.Decode[entity.Frame](data).Unpack()
	if err != nil {
		return errorFrame("", err)
	}

	room, err := entity.ParseRoom(frame.Room)
	if err != nil {
		return errorFrame(frame.Room, err)
	}

	switch frame.Event {
	case entity.EventJoin:
		err = h.hub.Join(stream, room)
	case entity.EventLeave:
		err = h.hub.Leave(stream, room)
	default:
		err = fmt.Errorf("%w: unsupported command %q", entity.ErrInvalidArgument, frame.Event)
	}

	if err != nil {
		return errorFrame(frame.Room, err)
	}

	return entity.Frame{Event: frame.Event, Room: room.String()}
}

func errorFrame(room string, err error) entity.Frame {
	var msg string

	switch {
	case errors.Is(err, entity.ErrForbidden), errors.Is(err, entity.ErrNotMember):
		msg = "forbidden"
	case errors.Is(err, entity.ErrNotConnected):
		msg = "not connected"
	case errors.Is(err, entity.ErrUnknownRoom), errors.Is(err, entity.ErrInvalidArgument):
		msg = "invalid command"
	default:
		msg = "internal error"
	}

	data, _ := json.Marshal(streamError{Message: msg})

	return entity.Frame{Event: entity.EventError, Room: room, Data: data}
}

func (h *Handler) writeFrames(
	ctx context.Context,
	conn *websocket.Conn,
	stream *realtime.Stream,
	replies <-chan entity.Frame,
	readDone <-chan struct{},
) {
	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	write := func(f entity.Frame) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))

		err := conn.WriteJSON(f)
		if err != nil {
			slog.WarnContext(ctx, "write realtime stream", "error", err)
			return false
		}

		return true
	}

	for {
		select {
		case <-readDone:
			return
		case <-stream.Done():
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(streamWriteWait))

			return
		case f := <-stream.Events():
			if !write(f) {
				return
			}
		case f := <-replies:
			if !write(f) {
				return
			}
		case <-ticker.C:
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait))
			if err != nil {
				return
			}
		}
	}
}
