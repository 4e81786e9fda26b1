package wire

import (
	"fmt"
	"sync"

	"github.com/gnestor/vdom"
	"github.com/gnestor/vdom/handlers"
)

// Serializer converts trees to envelopes against one handler registry.
// It remembers the identifier it allocated for each *vdom.Handler value, so
// a handler carried verbatim into a re-rendered tree keeps its identifier
// across the patch and stale-id release only hits bindings that actually
// disappeared.
//
// Identifiers are reference-counted: every Serialize call takes one
// reference per distinct identifier in its output, and every Release drops
// one. The registry entry is freed only when the last reference goes, so
// several live display sessions may render the same *vdom.Handler and one
// session replacing its tree never invalidates the binding a sibling still
// displays.
type Serializer struct {
	reg *handlers.Registry

	mu   sync.Mutex
	ids  map[*vdom.Handler]string
	byID map[string]*vdom.Handler
	refs map[string]int
}

// NewSerializer binds a serializer to the registry that will own the
// handler identifiers it allocates.
func NewSerializer(reg *handlers.Registry) *Serializer {
	return &Serializer{
		reg:  reg,
		ids:  make(map[*vdom.Handler]string),
		byID: make(map[string]*vdom.Handler),
		refs: make(map[string]int),
	}
}

// Serialize produces the wire envelope for n and the distinct handler
// identifiers referenced by it. The caller owns one reference to each
// returned identifier and must pass the set back to Release when the tree
// it describes is superseded or discarded.
func (s *Serializer) Serialize(n *vdom.VNode) (*Envelope, []string) {
	var raw []string
	env := s.lower(n, &raw)

	seen := make(map[string]struct{}, len(raw))
	var ids []string
	for _, id := range raw {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	s.mu.Lock()
	for _, id := range ids {
		s.refs[id]++
	}
	s.mu.Unlock()
	return env, ids
}

// Release drops one reference to each given identifier. An identifier
// whose last reference goes is removed from the registry and forgotten;
// one still held by another live tree stays resolvable.
func (s *Serializer) Release(ids ...string) {
	var freed []string
	s.mu.Lock()
	for _, id := range ids {
		if s.refs[id] > 1 {
			s.refs[id]--
			continue
		}
		delete(s.refs, id)
		if h, ok := s.byID[id]; ok {
			delete(s.ids, h)
			delete(s.byID, id)
		}
		freed = append(freed, id)
	}
	s.mu.Unlock()
	s.reg.Release(freed...)
}

// Registry exposes the backing registry, mainly so a dispatcher can be
// built against the same handler table.
func (s *Serializer) Registry() *handlers.Registry {
	return s.reg
}

func (s *Serializer) lower(n *vdom.VNode, ids *[]string) *Envelope {
	if n == nil {
		return nil
	}
	env := &Envelope{TagName: n.Tag, Attributes: make(map[string]any, len(n.Attrs))}
	for k, v := range n.Attrs {
		if h, ok := v.(*vdom.Handler); ok {
			id := s.idFor(h)
			*ids = append(*ids, id)
			env.Attributes[k] = id
			continue
		}
		env.Attributes[k] = v
	}
	for _, c := range n.Children {
		switch v := c.(type) {
		case vdom.Text:
			env.Children = append(env.Children, Child{Text: string(v)})
		case *vdom.VNode:
			env.Children = append(env.Children, Child{Node: s.lower(v, ids)})
		}
	}
	if n.Import != nil {
		env.Import = &Import{Package: n.Import.Package, Module: n.Import.Module}
	}
	return env
}

// idFor returns the identifier already allocated for h if it is still
// registered, otherwise registers the callback afresh.
func (s *Serializer) idFor(h *vdom.Handler) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.ids[h]; ok {
		if _, err := s.reg.Resolve(id); err == nil {
			return id
		}
		delete(s.ids, h)
		delete(s.byID, id)
	}
	id := s.reg.Register(h.Func)
	s.ids[h] = id
	s.byID[id] = h
	return id
}

// MimeBundle produces the typed payload for n alongside static fallbacks,
// the shape a rich display transport forwards to the frontend: a text/html
// rendering where the tree has one, and always a plain-text repr. A tree
// containing an import node has no static HTML equivalent, so its bundle
// carries only the typed payload and the repr. The identifier set follows
// Serialize's reference contract.
func (s *Serializer) MimeBundle(n *vdom.VNode) (map[string]any, []string) {
	env, ids := s.Serialize(n)
	bundle := map[string]any{
		MimeType:     env,
		"text/plain": fmt.Sprintf("<VDOM element '%s'>", n.Tag),
	}
	if markup, err := vdom.ToMarkup(n); err == nil {
		bundle["text/html"] = markup
	}
	return bundle, ids
}
