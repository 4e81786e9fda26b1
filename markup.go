package vdom

import (
	"fmt"
	"html"
	"sort"
	"strings"
)

// Tags that never take closing tags or children in the static rendering.
var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// ToMarkup produces a static HTML rendering of the tree, used as the
// fallback channel for environments without live-update capability. Text is
// escaped; handler attributes are omitted (there is no event channel in a
// static rendering). A dynamically imported component has no meaningful
// static equivalent, so encountering one fails with ErrUnrenderableChild
// rather than silently omitting output; callers wanting a placeholder must
// substitute one before rendering.
func ToMarkup(n *VNode) (string, error) {
	var b strings.Builder
	if err := writeMarkup(&b, n); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeMarkup(b *strings.Builder, n *VNode) error {
	if n == nil {
		return nil
	}
	if n.Import != nil {
		return fmt.Errorf("%w: <%s> imports %s", ErrUnrenderableChild, n.Tag, n.Import.Package)
	}

	b.WriteByte('<')
	b.WriteString(n.Tag)

	// Deterministic attribute order keeps output stable for tests and diffs.
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		if _, isHandler := n.Attrs[k].(*Handler); isHandler {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, " %s=%q", k, html.EscapeString(fmt.Sprint(n.Attrs[k])))
	}

	if voidTags[n.Tag] && len(n.Children) == 0 {
		b.WriteString(" />")
		return nil
	}
	b.WriteByte('>')

	for _, c := range n.Children {
		switch v := c.(type) {
		case Text:
			b.WriteString(html.EscapeString(string(v)))
		case *VNode:
			if err := writeMarkup(b, v); err != nil {
				return err
			}
		}
	}

	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteByte('>')
	return nil
}
