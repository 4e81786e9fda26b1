package wire

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gnestor/vdom"
	"github.com/gnestor/vdom/handlers"
)

func newTestSerializer() *Serializer {
	return NewSerializer(handlers.NewRegistry())
}

// TestSerialize_TreeShape pins the envelope produced for a small document:
// three children in order, the second a paragraph.
func TestSerialize_TreeShape(t *testing.T) {
	n := vdom.Div(nil,
		vdom.H1("A Header", nil),
		vdom.P("x", nil),
		vdom.Ul(nil,
			vdom.Li(nil, vdom.Text("0")),
			vdom.Li(nil, vdom.Text("1")),
		),
	)

	env, ids := newTestSerializer().Serialize(n)

	if len(ids) != 0 {
		t.Errorf("Expected no handler ids, got %v", ids)
	}
	want := &Envelope{
		TagName:    "div",
		Attributes: map[string]any{},
		Children: []Child{
			{Node: &Envelope{TagName: "h1", Attributes: map[string]any{}, Children: []Child{{Text: "A Header"}}}},
			{Node: &Envelope{TagName: "p", Attributes: map[string]any{}, Children: []Child{{Text: "x"}}}},
			{Node: &Envelope{TagName: "ul", Attributes: map[string]any{}, Children: []Child{
				{Node: &Envelope{TagName: "li", Attributes: map[string]any{}, Children: []Child{{Text: "0"}}}},
				{Node: &Envelope{TagName: "li", Attributes: map[string]any{}, Children: []Child{{Text: "1"}}}},
			}}},
		},
	}
	if diff := cmp.Diff(want, env); diff != "" {
		t.Errorf("Envelope mismatch (-want +got):\n%s", diff)
	}
}

// TestSerialize_HandlerSubstitution verifies a handler attribute crosses
// the wire as an opaque identifier that the registry resolves back to the
// callback.
func TestSerialize_HandlerSubstitution(t *testing.T) {
	ser := newTestSerializer()
	called := false
	n := vdom.Button("go", vdom.Attrs{"onClick": vdom.OnClick(func(vdom.Event) { called = true })})

	env, ids := ser.Serialize(n)

	if len(ids) != 1 {
		t.Fatalf("Expected 1 handler id, got %d", len(ids))
	}
	id, ok := env.Attributes["onClick"].(string)
	if !ok || id != ids[0] {
		t.Fatalf("Expected onClick attribute to be the allocated id, got %v", env.Attributes["onClick"])
	}
	fn, err := ser.Registry().Resolve(id)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	fn(vdom.Event{Kind: "click"})
	if !called {
		t.Error("Resolved callback was not the registered one")
	}
}

// TestSerialize_HandlerIdentity verifies that the same *Handler value keeps
// its identifier across serializations, while a fresh Handler wrapping the
// same function gets a new one.
func TestSerialize_HandlerIdentity(t *testing.T) {
	ser := newTestSerializer()
	fn := func(vdom.Event) {}
	stable := vdom.OnClick(fn)

	_, first := ser.Serialize(vdom.Button("a", vdom.Attrs{"onClick": stable}))
	_, second := ser.Serialize(vdom.Button("b", vdom.Attrs{"onClick": stable}))
	if first[0] != second[0] {
		t.Errorf("Stable handler changed id across serializations: %s vs %s", first[0], second[0])
	}

	_, fresh := ser.Serialize(vdom.Button("c", vdom.Attrs{"onClick": vdom.OnClick(fn)}))
	if fresh[0] == first[0] {
		t.Error("Fresh handler value reused another handler's id")
	}

	// Each serialization held a reference; once both are returned the
	// stable handler re-registers under a new id.
	ser.Release(first[0])
	ser.Release(first[0])
	_, again := ser.Serialize(vdom.Button("d", vdom.Attrs{"onClick": stable}))
	if again[0] == first[0] {
		t.Error("Released id was handed out again for the same handler")
	}
}

// TestRelease_ReferenceCounted verifies an identifier stays registered
// until every serialization that produced it has returned its reference.
func TestRelease_ReferenceCounted(t *testing.T) {
	ser := newTestSerializer()
	stable := vdom.OnClick(func(vdom.Event) {})

	_, a := ser.Serialize(vdom.Button("a", vdom.Attrs{"onClick": stable}))
	_, b := ser.Serialize(vdom.Button("b", vdom.Attrs{"onClick": stable}))
	if a[0] != b[0] {
		t.Fatalf("Expected shared id, got %s and %s", a[0], b[0])
	}

	ser.Release(a...)
	if _, err := ser.Registry().Resolve(b[0]); err != nil {
		t.Fatalf("Id freed while a reference remained: %v", err)
	}

	ser.Release(b...)
	if _, err := ser.Registry().Resolve(b[0]); err == nil {
		t.Error("Id still resolvable after its last reference was returned")
	}
	if ser.Registry().Len() != 0 {
		t.Errorf("Expected empty registry, got %d", ser.Registry().Len())
	}
}

// TestSerialize_DistinctIDs verifies a handler appearing twice in one tree
// yields one identifier entry per Serialize call, so reference accounting
// stays balanced with Release.
func TestSerialize_DistinctIDs(t *testing.T) {
	ser := newTestSerializer()
	stable := vdom.OnClick(func(vdom.Event) {})
	n := vdom.Div(nil,
		vdom.Button("a", vdom.Attrs{"onClick": stable}),
		vdom.Button("b", vdom.Attrs{"onClick": stable}),
	)

	_, ids := ser.Serialize(n)
	if len(ids) != 1 {
		t.Fatalf("Expected 1 distinct id, got %v", ids)
	}

	ser.Release(ids...)
	if _, err := ser.Registry().Resolve(ids[0]); err == nil {
		t.Error("Single reference did not free the id")
	}
}

// TestEnvelope_JSONIdempotent checks the wire form survives a
// decode/encode cycle byte for byte.
func TestEnvelope_JSONIdempotent(t *testing.T) {
	n := vdom.Div(vdom.Attrs{"class": "box", "hidden": false},
		vdom.H1("hi", nil),
		vdom.Text("tail"),
	)
	env, _ := newTestSerializer().Serialize(n)

	first, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var decoded Envelope
	if err := json.Unmarshal(first, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	second, err := json.Marshal(&decoded)
	if err != nil {
		t.Fatalf("Re-marshal failed: %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("Wire form not idempotent:\n first %s\nsecond %s", first, second)
	}
}

// TestSerialize_ImportDefaultModule verifies an omitted module name stays
// omitted on the wire, leaving the default-export choice to the frontend.
func TestSerialize_ImportDefaultModule(t *testing.T) {
	withDefault, err := vdom.Div(nil).WithImport("@pkg/core", "")
	if err != nil {
		t.Fatalf("WithImport failed: %v", err)
	}
	env, _ := newTestSerializer().Serialize(withDefault)

	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"import":{"package":"@pkg/core"}`) {
		t.Errorf("Expected module field omitted, got %s", data)
	}

	named, err := vdom.Div(nil).WithImport("@pkg/core", "Button")
	if err != nil {
		t.Fatalf("WithImport failed: %v", err)
	}
	env, _ = newTestSerializer().Serialize(named)
	data, _ = json.Marshal(env)
	if !strings.Contains(string(data), `"module":"Button"`) {
		t.Errorf("Expected named module on the wire, got %s", data)
	}
}

func TestMimeBundle(t *testing.T) {
	bundle, ids := newTestSerializer().MimeBundle(vdom.Div(nil, vdom.Text("hi")))
	if len(ids) != 0 {
		t.Errorf("Expected no handler ids, got %v", ids)
	}
	if _, ok := bundle[MimeType].(*Envelope); !ok {
		t.Errorf("Bundle missing typed payload: %v", bundle)
	}
	if bundle["text/html"] != "<div>hi</div>" {
		t.Errorf("Unexpected html fallback: %v", bundle["text/html"])
	}
	if bundle["text/plain"] != "<VDOM element 'div'>" {
		t.Errorf("Unexpected plain-text fallback: %v", bundle["text/plain"])
	}
}

// TestMimeBundle_ImportNode verifies a tree with no static HTML equivalent
// still bundles the typed payload and plain-text repr, just without the
// html entry.
func TestMimeBundle_ImportNode(t *testing.T) {
	n, err := vdom.Div(nil).WithImport("@pkg/core", "Button")
	if err != nil {
		t.Fatalf("WithImport failed: %v", err)
	}

	bundle, _ := newTestSerializer().MimeBundle(n)

	if _, ok := bundle["text/html"]; ok {
		t.Errorf("Import node produced an html fallback: %v", bundle["text/html"])
	}
	if _, ok := bundle[MimeType].(*Envelope); !ok {
		t.Errorf("Bundle missing typed payload: %v", bundle)
	}
	if bundle["text/plain"] != "<VDOM element 'div'>" {
		t.Errorf("Unexpected plain-text fallback: %v", bundle["text/plain"])
	}
}
