package runtime

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gnestor/vdom/display"
	"github.com/gnestor/vdom/wire"
)

// ErrRenderFailure reports that a component's Render returned an error
// during an update. The update is aborted and the previously displayed
// tree stays intact; no partial patch is sent.
var ErrRenderFailure = errors.New("component render failed")

// ComponentBase is embedded by components to gain local state and the
// SetState method, which triggers a re-render of the bound display session.
type ComponentBase struct {
	mu      sync.Mutex
	state   State
	self    Component
	session *display.Session
	logger  *slog.Logger
}

// Bind attaches the display session created for self. Called by Mount;
// this method should not be called by user code.
func (b *ComponentBase) Bind(self Component, sess *display.Session) {
	b.mu.Lock()
	b.self = self
	b.session = sess
	b.mu.Unlock()
}

// SetLogger routes this component's diagnostics to logger instead of
// slog.Default.
func (b *ComponentBase) SetLogger(logger *slog.Logger) {
	b.mu.Lock()
	b.logger = logger
	b.mu.Unlock()
}

// State returns the component's state mapping. Render steps treat it as
// read-only; all writes go through SetState.
func (b *ComponentBase) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == nil {
		b.state = make(State)
	}
	return b.state
}

// Session returns the bound display session, or nil before first display.
func (b *ComponentBase) Session() *display.Session {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.session
}

// SetState shallow-merges partial into the component's state: keys absent
// from partial are preserved. If the component has been displayed, the
// bound session is updated immediately with a fresh render.
//
// A render error surfaces as ErrRenderFailure and leaves the displayed
// tree intact. A detached session is not an error here: the merge is kept
// and the component simply produces no visible effect until a new session
// is established.
func (b *ComponentBase) SetState(partial State) error {
	b.mu.Lock()
	if b.state == nil {
		b.state = make(State)
	}
	for k, v := range partial {
		b.state[k] = v
	}
	self, sess, logger := b.self, b.session, b.logger
	b.mu.Unlock()

	if sess == nil {
		return nil
	}
	root, err := self.Render()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRenderFailure, err)
	}
	if err := sess.Update(root); err != nil {
		if errors.Is(err, display.ErrSessionDetached) {
			if logger == nil {
				logger = slog.Default()
			}
			logger.Warn("state change not displayed, session detached", "handle", sess.Handle())
			return nil
		}
		return err
	}
	return nil
}

// Unmount releases the bound session's tree and handlers. The component
// keeps its state and may be mounted again later.
func (b *ComponentBase) Unmount() {
	b.mu.Lock()
	sess := b.session
	b.session = nil
	b.mu.Unlock()
	if sess != nil {
		sess.Release()
	}
}

// Mount performs the first display of c: it renders, creates a display
// session over tr, and binds the session so later SetState calls patch the
// same output in place.
func Mount(c Component, ser *wire.Serializer, tr display.Transport) (*display.Session, error) {
	root, err := c.Render()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailure, err)
	}
	sess, err := display.NewSession(root, ser, tr)
	if err != nil {
		return nil, err
	}
	c.Bind(c, sess)
	return sess, nil
}
