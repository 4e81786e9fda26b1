// Package dispatch routes inbound frontend events to the backend callbacks
// bound in a handler registry. Dispatch failures are reported, never
// propagated: an unknown identifier or a panicking handler must not take
// down the hosting process or corrupt unrelated display sessions.
package dispatch

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gnestor/vdom"
	"github.com/gnestor/vdom/handlers"
	"github.com/gnestor/vdom/internal/ctxlog"
)

// EventKindImportFailure is the reserved event kind a frontend uses to
// report that resolving a dynamically imported component failed at render
// time. Such messages carry no handler identifier; they are surfaced as
// diagnostics, best effort, and only if the frontend chooses to send them.
const EventKindImportFailure = "importError"

// EventMessage is one frontend-originated event as it arrives off the
// transport.
type EventMessage struct {
	HandlerID string         `json:"handlerId"`
	EventKind string         `json:"eventKind"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// Dispatcher resolves event messages against one registry and invokes the
// bound callbacks synchronously.
type Dispatcher struct {
	reg    *handlers.Registry
	logger *slog.Logger
}

// NewDispatcher builds a dispatcher over reg. A nil logger falls back to
// slog.Default.
func NewDispatcher(reg *handlers.Registry, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{reg: reg, logger: logger}
}

// Dispatch resolves msg's handler and invokes it with the event payload.
// An identifier that no longer resolves means the tree that bound it was
// superseded; the event is dropped and logged, never surfaced to the
// frontend. A panic inside the callback is recovered at this boundary and
// reported as a handler failure. Any re-renders the callback triggers run
// synchronously within this call.
func (d *Dispatcher) Dispatch(ctx context.Context, msg EventMessage) {
	logger := ctxlog.FromContext(ctx, d.logger)

	if msg.EventKind == EventKindImportFailure {
		logger.Error("import resolution failure reported by frontend",
			"package", msg.Payload["package"], "module", msg.Payload["module"],
			"message", msg.Payload["message"])
		return
	}

	fn, err := d.reg.Resolve(msg.HandlerID)
	if err != nil {
		if errors.Is(err, handlers.ErrUnknownHandler) {
			logger.Warn("dropping event for stale handler",
				"handlerId", msg.HandlerID, "eventKind", msg.EventKind)
			return
		}
		logger.Error("resolving handler", "handlerId", msg.HandlerID, "error", err)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("handler failure",
				"handlerId", msg.HandlerID, "eventKind", msg.EventKind, "panic", r)
		}
	}()
	fn(vdom.Event{Kind: msg.EventKind, Payload: msg.Payload})
}

// Serve drains events one at a time until the channel closes or ctx is
// done. A callback runs to completion before the next event is dispatched,
// so handlers never observe interleaved state mutation from another event
// on this stream.
func (d *Dispatcher) Serve(ctx context.Context, events <-chan EventMessage) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-events:
			if !ok {
				return nil
			}
			d.Dispatch(ctx, msg)
		}
	}
}
