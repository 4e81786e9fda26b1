// Package display binds a rendered tree to a frontend-stable handle so
// later renders patch the existing output in place instead of creating a
// new one.
package display

import (
	"github.com/gnestor/vdom"
	"github.com/gnestor/vdom/wire"
)

// Message types understood by the frontend renderer.
const (
	MessageRender = "render" // first display of a tree under a new handle
	MessagePatch  = "patch"  // in-place replacement of the tree behind a handle
)

// Message is one outbound frame to the frontend.
type Message struct {
	Type   string         `json:"type"`
	Handle string         `json:"handle"`
	Tree   *wire.Envelope `json:"tree"`
}

// Transport is the display channel capability the hosting infrastructure
// supplies. Send is fire-and-forget: it returns once the message is
// enqueued toward the frontend, not when the frontend has drawn it.
type Transport interface {
	AllocateHandle() (string, error)
	Send(msg Message) error
}

// Displayable is implemented by anything that can produce a renderable
// tree. The host display transport drives this interface; entities never
// need to emulate a runtime-specific rich-display protocol.
type Displayable interface {
	Render() (*vdom.VNode, error)
}
