// Package wire lowers a vdom tree into the JSON envelope the frontend
// renderer consumes. Handler attribute values never cross the wire: the
// serializer substitutes opaque identifiers allocated from a
// handlers.Registry, as a side effect registering the callbacks for the
// dispatch path.
package wire

import (
	"encoding/json"
	"fmt"
)

// MimeType identifies the typed JSON payload in a display bundle.
const MimeType = "application/vdom.v1+json"

// Envelope is the canonical wire representation of one node.
type Envelope struct {
	TagName    string         `json:"tagName"`
	Attributes map[string]any `json:"attributes"`
	Children   []Child        `json:"children,omitempty"`
	Import     *Import        `json:"import,omitempty"`
}

// Import references a dynamically loaded frontend component. Module is
// omitted from the payload when empty; the frontend then loads the
// package's default export.
type Import struct {
	Package string `json:"package"`
	Module  string `json:"module,omitempty"`
}

// Child is one entry of an envelope's child list: a nested envelope or a
// bare text leaf. Exactly one of Node and Text is meaningful; Node wins
// when set.
type Child struct {
	Node *Envelope
	Text string
}

func (c Child) MarshalJSON() ([]byte, error) {
	if c.Node != nil {
		return json.Marshal(c.Node)
	}
	return json.Marshal(c.Text)
}

func (c *Child) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		c.Node = nil
		return json.Unmarshal(data, &c.Text)
	}
	c.Text = ""
	c.Node = new(Envelope)
	if err := json.Unmarshal(data, c.Node); err != nil {
		return fmt.Errorf("decoding envelope child: %w", err)
	}
	return nil
}
