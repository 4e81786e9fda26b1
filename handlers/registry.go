// Package handlers owns the process-scoped table mapping opaque wire
// identifiers to backend callbacks. The serializer allocates identifiers as
// it lowers a tree, and the dispatcher resolves them when event messages
// come back; a display session releases the identifiers its superseded tree
// held so that stale frontend events are rejected instead of invoked
// against freed state.
package handlers

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/gnestor/vdom"
)

// ErrUnknownHandler reports an identifier that is absent from the registry,
// either never allocated or already released.
var ErrUnknownHandler = errors.New("unknown handler")

// Registry is safe for concurrent use from the dispatch path and from
// re-renders triggered by unrelated handlers.
type Registry struct {
	mu    sync.Mutex
	funcs map[string]vdom.HandlerFunc
}

// NewRegistry creates an empty registry. One per process is typical; the
// registry is passed explicitly to the serializer and dispatcher rather
// than living in a package-level variable.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]vdom.HandlerFunc)}
}

// Register allocates a fresh unique identifier for fn. Identifiers are
// never reused while referenced; uuids make that hold across the life of
// the process.
func (r *Registry) Register(fn vdom.HandlerFunc) string {
	id := uuid.NewString()
	r.mu.Lock()
	r.funcs[id] = fn
	r.mu.Unlock()
	return id
}

// Resolve returns the callback for id, or ErrUnknownHandler.
func (r *Registry) Resolve(id string) (vdom.HandlerFunc, error) {
	r.mu.Lock()
	fn, ok := r.funcs[id]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHandler, id)
	}
	return fn, nil
}

// Release removes the given identifiers. Unknown ids are ignored: a
// release races benignly with a session that already replaced its tree.
func (r *Registry) Release(ids ...string) {
	r.mu.Lock()
	for _, id := range ids {
		delete(r.funcs, id)
	}
	r.mu.Unlock()
}

// Len reports how many handlers are currently registered.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.funcs)
}
