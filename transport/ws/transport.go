// Package ws is a reference display transport over a websocket: render and
// patch messages go out as JSON frames, event messages come back in and are
// pumped to a channel the dispatcher drains. The hosting notebook or shell
// infrastructure may substitute any other display.Transport; nothing else
// in the library knows about websockets.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gnestor/vdom/dispatch"
	"github.com/gnestor/vdom/display"
)

// Compile-time assertion that Transport implements the display capability.
var _ display.Transport = (*Transport)(nil)

// Transport adapts one websocket connection to the display transport
// capability.
type Transport struct {
	conn   *websocket.Conn
	logger *slog.Logger

	writeMu sync.Mutex
	events  chan dispatch.EventMessage

	closeOnce sync.Once
	closeErr  error
}

// NewTransport wraps an established connection. A nil logger falls back to
// slog.Default. Call ReadEvents to start pumping inbound events.
func NewTransport(conn *websocket.Conn, logger *slog.Logger) *Transport {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{
		conn:   conn,
		logger: logger,
		events: make(chan dispatch.EventMessage, 16),
	}
}

// AllocateHandle returns a fresh display handle. Handles are uuids, so a
// new session never collides with one from a prior session or process.
func (t *Transport) AllocateHandle() (string, error) {
	return uuid.NewString(), nil
}

// Send writes one display message as a JSON text frame. It returns once
// the frame is handed to the socket; frontend acknowledgment is not
// awaited. Gorilla connections do not support concurrent writers, so
// writes are serialized here.
func (t *Transport) Send(msg display.Message) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if err := t.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("sending %s for handle %s: %w", msg.Type, msg.Handle, err)
	}
	return nil
}

// Events is the inbound stream of frontend event messages, keyed by
// handler identifier. The channel closes when the connection does.
func (t *Transport) Events() <-chan dispatch.EventMessage {
	return t.events
}

// ReadEvents pumps inbound frames into Events until the connection closes
// or ctx is done. Malformed frames are logged and skipped; the frontend is
// untrusted and one bad frame must not end the session.
func (t *Transport) ReadEvents(ctx context.Context) error {
	defer close(t.events)
	for {
		_, data, err := t.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
				errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("reading event frame: %w", err)
		}
		var msg dispatch.EventMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.logger.Warn("discarding malformed event frame", "error", err)
			continue
		}
		if msg.HandlerID == "" && msg.EventKind != dispatch.EventKindImportFailure {
			t.logger.Warn("discarding event frame without handlerId")
			continue
		}
		select {
		case t.events <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close tears the connection down. Pending Sends fail afterwards with the
// socket's error, which display sessions surface as ErrSessionDetached.
func (t *Transport) Close() error {
	t.closeOnce.Do(func() {
		t.closeErr = t.conn.Close()
	})
	return t.closeErr
}
