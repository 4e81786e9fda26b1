package vdom

// Tag creates a node for an arbitrary tag with pre-typed children. Unlike
// New it cannot fail: the Child type admits only nodes and text.
func Tag(tag string, attrs Attrs, children ...Child) *VNode {
	kids := make([]Child, 0, len(children))
	for _, c := range children {
		if c == nil {
			continue
		}
		if v, ok := c.(*VNode); ok && v == nil {
			continue
		}
		kids = append(kids, c)
	}
	var copied Attrs
	if len(attrs) > 0 {
		copied = make(Attrs, len(attrs))
		for k, v := range attrs {
			copied[k] = v
		}
	}
	return &VNode{Tag: tag, Attrs: copied, Children: kids}
}

// Div creates a <div> node with the given children and allows passing attributes.
func Div(attrs Attrs, children ...Child) *VNode {
	return Tag("div", attrs, children...)
}

// Span creates a <span> node.
func Span(attrs Attrs, children ...Child) *VNode {
	return Tag("span", attrs, children...)
}

// P creates a <p> node with the given text as its child.
func P(text string, attrs Attrs) *VNode {
	return Tag("p", attrs, Text(text))
}

// H1 creates an <h1> node with the given text as its child.
func H1(text string, attrs Attrs) *VNode {
	return Tag("h1", attrs, Text(text))
}

// A creates an <a> node.
func A(href string, attrs Attrs, children ...Child) *VNode {
	return withAttr(Tag("a", attrs, children...), "href", href)
}

// Ul creates a <ul> node.
func Ul(attrs Attrs, children ...Child) *VNode {
	return Tag("ul", attrs, children...)
}

// Li creates an <li> node.
func Li(attrs Attrs, children ...Child) *VNode {
	return Tag("li", attrs, children...)
}

// Img creates an <img> node for the given source.
func Img(src string, attrs Attrs) *VNode {
	return withAttr(Tag("img", attrs), "src", src)
}

// Button creates a <button> node with the given label and allows passing
// attributes, typically including an event binding:
//
//	vdom.Button("+1", vdom.Attrs{"onClick": vdom.OnClick(increment)})
func Button(label string, attrs Attrs, children ...Child) *VNode {
	kids := children
	if label != "" {
		kids = append([]Child{Text(label)}, children...)
	}
	return Tag("button", attrs, kids...)
}

// Input returns an <input> node of the given type
// (e.g. Input("text", vdom.Attrs{"placeholder": "Type here"})).
func Input(inputType string, attrs Attrs) *VNode {
	return withAttr(Tag("input", attrs), "type", inputType)
}

// withAttr sets an attribute on a freshly built, not yet published node.
// Tag already copied the caller's map, so the caller's Attrs stay untouched.
func withAttr(n *VNode, key, value string) *VNode {
	if n.Attrs == nil {
		n.Attrs = make(Attrs, 1)
	}
	n.Attrs[key] = value
	return n
}
