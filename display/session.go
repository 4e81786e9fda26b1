package display

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gnestor/vdom"
	"github.com/gnestor/vdom/wire"
)

// ErrSessionDetached reports that the transport could not deliver to the
// session's handle (channel gone, handle expired). The previously rendered
// tree stays displayed and the session's state does not advance.
var ErrSessionDetached = errors.New("display session detached")

// Session is one live rendering of a root node in the frontend. At most one
// root is live per handle; Update replaces it atomically from the
// dispatcher's perspective, advancing only on confirmed send.
type Session struct {
	handle string
	ser    *wire.Serializer
	tr     Transport

	mu          sync.Mutex
	currentRoot *vdom.VNode
	ids         map[string]struct{}
	released    bool
}

// NewSession serializes root, sends the initial render message, and returns
// a session bound to a freshly allocated handle. A handle is never reused
// from a prior session or process.
func NewSession(root *vdom.VNode, ser *wire.Serializer, tr Transport) (*Session, error) {
	handle, err := tr.AllocateHandle()
	if err != nil {
		return nil, fmt.Errorf("%w: allocating handle: %v", ErrSessionDetached, err)
	}
	env, ids := ser.Serialize(root)
	if err := tr.Send(Message{Type: MessageRender, Handle: handle, Tree: env}); err != nil {
		// Return the references this serialization took; identifiers a
		// sibling session still displays survive the release.
		ser.Release(ids...)
		return nil, fmt.Errorf("%w: %v", ErrSessionDetached, err)
	}
	return &Session{
		handle:      handle,
		ser:         ser,
		tr:          tr,
		currentRoot: root,
		ids:         idSet(ids),
	}, nil
}

// Display renders d and shows the result in a new session.
func Display(d Displayable, ser *wire.Serializer, tr Transport) (*Session, error) {
	root, err := d.Render()
	if err != nil {
		return nil, err
	}
	return NewSession(root, ser, tr)
}

// Handle returns the frontend-stable identifier for this output.
func (s *Session) Handle() string {
	return s.handle
}

// CurrentRoot returns the last tree confirmed sent.
func (s *Session) CurrentRoot() *vdom.VNode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentRoot
}

// Update serializes newRoot and patches the frontend output in place,
// reusing the session's handle. On success the superseded tree's
// references are returned to the serializer, which invalidates exactly the
// identifiers no live tree still holds: stale frontend events referencing
// them are rejected, while bindings carried into the new tree (or shown by
// a sibling session) remain valid. On failure the session is unchanged:
// the prior tree stays current and keeps its handlers.
func (s *Session) Update(newRoot *vdom.VNode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return fmt.Errorf("%w: session released", ErrSessionDetached)
	}

	env, newIDs := s.ser.Serialize(newRoot)
	if err := s.tr.Send(Message{Type: MessagePatch, Handle: s.handle, Tree: env}); err != nil {
		// Undo the failed render's references; the live tree keeps its
		// own, so its bindings keep working.
		s.ser.Release(newIDs...)
		return fmt.Errorf("%w: %v", ErrSessionDetached, err)
	}

	old := make([]string, 0, len(s.ids))
	for id := range s.ids {
		old = append(old, id)
	}
	s.ser.Release(old...)
	s.currentRoot = newRoot
	s.ids = idSet(newIDs)
	return nil
}

// Release ends the session: its references to the tree's handler
// identifiers are returned (identifiers held by no other live session are
// invalidated) and further updates fail with ErrSessionDetached. Called
// when the owning frontend output is removed.
func (s *Session) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	s.ser.Release(ids...)
	s.ids = nil
	s.released = true
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
