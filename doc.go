// Package vdom is the kernel-side virtual DOM model: an immutable tree of
// nodes describing a UI that a separate frontend renderer draws and patches.
//
// A tree is built from tag builders or New, serialized to a JSON wire
// envelope by the wire package, and shown through a display.Session, which
// holds the frontend-stable handle that lets re-renders patch the existing
// output in place. Event attributes bind Go callbacks via Handler values;
// the frontend only ever sees opaque handler identifiers, which the
// dispatch package resolves back to callbacks when event messages arrive.
//
//	tree := vdom.Div(nil,
//		vdom.H1("Count: 0", nil),
//		vdom.Button("+1", vdom.Attrs{"onClick": vdom.OnClick(increment)}),
//	)
package vdom
