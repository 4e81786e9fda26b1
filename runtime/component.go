// Package runtime provides the stateful component layer: a unit owning
// local state and a pure render function, re-rendered through its display
// session whenever the state changes.
package runtime

import (
	"github.com/gnestor/vdom"
	"github.com/gnestor/vdom/display"
)

// State is the mutable mapping owned by one component instance. SetState
// merges into it; the render step reads it and must not write it.
type State map[string]any

// Component is the interface every UI component implements, typically by
// embedding ComponentBase and defining Render.
type Component interface {
	// Render generates the virtual DOM tree for this component. It must be
	// pure with respect to the component's props and state: no side
	// effects, idempotent for the same state.
	Render() (*vdom.VNode, error)

	// Bind is called by Mount to attach the display session that SetState
	// re-renders through. This method should not be called by user code.
	Bind(self Component, sess *display.Session)
}
