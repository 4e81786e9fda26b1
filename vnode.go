package vdom

import "reflect"

// Attrs holds the attributes of a node. Values are scalars (string, bool,
// numbers) or *Handler for event bindings. Insertion order is irrelevant.
type Attrs map[string]any

// Child is a member of a VNode's child list: either a nested *VNode or a
// Text leaf.
type Child interface {
	isChild()
}

// Text is a leaf child rendered as character data.
type Text string

func (Text) isChild() {}

// ImportRef identifies a non-native component loaded dynamically by the
// frontend from a package's named export, rendered in place of a native tag.
type ImportRef struct {
	Package string
	// Module is the named export to use. Empty means the package's default
	// export; the wire payload then omits the field and the frontend applies
	// the default.
	Module string
}

// VNode represents one virtual DOM node. Values are immutable after
// construction: constructors copy their inputs, and callers must not mutate
// the exported fields. Structural sharing between trees is fine.
type VNode struct {
	Tag      string     // native tag name, or a placeholder when Import is set
	Attrs    Attrs      // the attributes of the node
	Children []Child    // ordered child nodes and text leaves
	Import   *ImportRef // set only for dynamically imported components
}

func (*VNode) isChild() {}

// New constructs a node. Children may be *VNode, Text, string, or nil;
// nil children are dropped, strings become Text leaves. Any other child
// kind fails with ErrInvalidChildKind.
func New(tag string, attrs Attrs, children ...any) (*VNode, error) {
	kids := make([]Child, 0, len(children))
	for i, c := range children {
		switch v := c.(type) {
		case nil:
			// dropped, not stored
		case *VNode:
			if v != nil {
				kids = append(kids, v)
			}
		case Text:
			kids = append(kids, v)
		case string:
			kids = append(kids, Text(v))
		default:
			return nil, invalidChild(tag, i, c)
		}
	}
	var copied Attrs
	if len(attrs) > 0 {
		copied = make(Attrs, len(attrs))
		for k, v := range attrs {
			copied[k] = v
		}
	}
	return &VNode{Tag: tag, Attrs: copied, Children: kids}, nil
}

// WithImport returns a copy of the node whose tag resolves through a dynamic
// import of the named export from pkg. An empty pkg fails with
// ErrInvalidImportRef. Module may be empty to select the package's default
// export.
func (n *VNode) WithImport(pkg, module string) (*VNode, error) {
	if pkg == "" {
		return nil, invalidImportRef(n.Tag)
	}
	dup := *n
	dup.Import = &ImportRef{Package: pkg, Module: module}
	return &dup, nil
}

// Equal reports structural equality of two trees. It is intended for
// memoization and tests; patching identity is the display session's handle,
// not node equality. Handler attributes compare by pointer identity, and an
// attribute holding a non-comparable value (a slice, a map) compares
// unequal rather than panicking.
func (n *VNode) Equal(other *VNode) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Tag != other.Tag || len(n.Attrs) != len(other.Attrs) || len(n.Children) != len(other.Children) {
		return false
	}
	if (n.Import == nil) != (other.Import == nil) {
		return false
	}
	if n.Import != nil && *n.Import != *other.Import {
		return false
	}
	for k, v := range n.Attrs {
		w, ok := other.Attrs[k]
		if !ok || !attrEqual(v, w) {
			return false
		}
	}
	for i, c := range n.Children {
		switch v := c.(type) {
		case Text:
			t, ok := other.Children[i].(Text)
			if !ok || t != v {
				return false
			}
		case *VNode:
			o, ok := other.Children[i].(*VNode)
			if !ok || !v.Equal(o) {
				return false
			}
		}
	}
	return true
}

func attrEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}
