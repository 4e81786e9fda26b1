package vdom

// Event carries a frontend-originated interaction back into a handler.
// Payload holds whatever fields the frontend supplied (target metadata,
// input values, coordinates); the library does not interpret them.
type Event struct {
	Kind    string
	Payload map[string]any
}

// HandlerFunc is a backend callback bound to a node's event attribute.
type HandlerFunc func(Event)

// Handler marks an attribute value as an event callback. The callback never
// crosses the wire: serialization substitutes an opaque identifier that the
// backend's registry resolves back to Func when an event arrives.
//
// Reuse the same *Handler value across re-renders to keep its wire
// identifier valid through a patch; a freshly constructed Handler gets a
// fresh identifier even if it wraps the same Go function.
type Handler struct {
	Kind string
	Func HandlerFunc
}

// On binds fn to the given event kind ("click", "change", ...). The
// conventional attribute key is "on" + capitalized kind, e.g. Attrs{"onClick":
// vdom.On("click", fn)}.
func On(kind string, fn HandlerFunc) *Handler {
	return &Handler{Kind: kind, Func: fn}
}

// OnClick binds fn to click events.
func OnClick(fn HandlerFunc) *Handler { return On("click", fn) }

// OnChange binds fn to change events.
func OnChange(fn HandlerFunc) *Handler { return On("change", fn) }

// OnInput binds fn to input events.
func OnInput(fn HandlerFunc) *Handler { return On("input", fn) }

// OnKeyPress binds fn to keypress events.
func OnKeyPress(fn HandlerFunc) *Handler { return On("keyPress", fn) }
