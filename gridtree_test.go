package gridtree

import (
	"bytes"
	"errors"
	"testing"

	"github.com/signadot/gridtree/format"
	"github.com/signadot/gridtree/grid"
	"github.com/signadot/gridtree/ir"
	"github.com/signadot/gridtree/layout"
	"github.com/signadot/gridtree/scheme"
)

func mustYAML(t *testing.T, src string) *ir.Node {
	t.Helper()
	n, err := format.Decode([]byte(src), format.YAMLFormat)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

var roundTrips = []struct {
	name     string
	src      string
	strategy string
}{
	{
		name:     "tags",
		src:      "- {id: 1, tags: [1, 2]}\n- {id: 2, tags: [1, 2, 3]}\n",
		strategy: "horizontal",
	},
	{
		name:     "optional fields",
		src:      "- {a: 1, b: 2}\n- {a: 3, c: 4}\n- {a: 5}\n",
		strategy: "simple",
	},
	{
		name: "nested events",
		src: `
- id: 1
  events:
  - {kind: open, at: 3}
- id: 2
  events:
  - kind: close
    results: [ok, late]
  - {kind: open, note: again}
`,
		strategy: "horizontal",
	},
	{
		name: "report",
		src: `
title: inventory
owner: {name: ops, team: infra}
items:
- {sku: a1, qty: 4}
- {sku: b2}
- {sku: c3, qty: 1, note: fragile}
`,
		strategy: "vertical",
	},
	{
		name: "mixed array",
		src:  "m:\n- 1\n- {k: v}\n- [2, 3]\n",
	},
	{
		name:     "scalars",
		src:      "[x, y, z]\n",
		strategy: "simple",
	},
	{
		name: "per index",
		src: `
- p: [{name: a, kind: x}, {total: 1, tax: 2}]
- p: [{name: b, kind: y}, {total: 3, tax: 4}]
`,
		strategy: "horizontal",
	},
	{
		name: "dictionary",
		src: `
- {id: 1, attrs: {red: 1}}
- {id: 2, attrs: {green: 2}}
- {id: 3, attrs: {blue: 3}}
- {id: 4, attrs: {cyan: 4, red: 5}}
- {id: 5, attrs: {pink: 6}}
- {id: 6, attrs: {gold: 7}}
`,
		strategy: "vertical",
	},
	{
		name:     "strings that look like numbers",
		src:      "code: \"007\"\nflag: \"true\"\nn: 7\n",
		strategy: "simple",
	},
}

func TestRoundTrip(t *testing.T) {
	for _, tt := range roundTrips {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustYAML(t, tt.src)
			p, _, err := Plan(doc)
			if err != nil {
				t.Fatal(err)
			}
			if tt.strategy != "" && p.Strategy.String() != tt.strategy {
				t.Errorf("strategy %s, want %s", p.Strategy, tt.strategy)
			}
			got, g, err := RoundTrip(doc)
			if err != nil {
				t.Fatal(err)
			}
			if !ir.Equivalent(doc, got) {
				t.Errorf("%s\n%s", ir.Difference(doc, got), grid.Render(g))
			}
		})
	}
}

func TestRoundTripEveryStrategy(t *testing.T) {
	for _, tt := range roundTrips {
		for _, s := range layout.Strategies() {
			t.Run(tt.name+"/"+s.String(), func(t *testing.T) {
				doc := mustYAML(t, tt.src)
				got, g, err := RoundTrip(doc, WithStrategy(s))
				if err != nil {
					t.Fatal(err)
				}
				if !ir.Equivalent(doc, got) {
					t.Errorf("%s\n%s", ir.Difference(doc, got), grid.Render(g))
				}
			})
		}
	}
}

func TestXLSXRoundTrip(t *testing.T) {
	doc := mustYAML(t, roundTrips[2].src)
	w, err := grid.NewXLSXWriter("data")
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if _, err := Encode(w, doc); err != nil {
		t.Fatal(err)
	}
	buf := &bytes.Buffer{}
	if err := w.Write(buf); err != nil {
		t.Fatal(err)
	}
	g, err := grid.ReadXLSX(buf, "data")
	if err != nil {
		t.Fatal(err)
	}
	docs, err := Decode(g)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || !ir.Equivalent(doc, docs[0]) {
		t.Errorf("xlsx round trip:\n%s", grid.Render(g))
	}
}

func TestDecodeInferTypes(t *testing.T) {
	g := grid.FromRows([][]string{
		{"$[]", ""},
		{"${}", ""},
		{"id", "ok"},
		{"$scheme_end", ""},
		{"1", "true"},
	}, false)
	docs, err := Decode(g, InferTypes(true))
	if err != nil {
		t.Fatal(err)
	}
	want := mustYAML(t, "[{id: 1, ok: true}]")
	if len(docs) != 1 || !ir.Equivalent(want, docs[0]) {
		t.Errorf("got %v", docs)
	}
}

func TestEncodeScalarRoot(t *testing.T) {
	_, err := Encode(grid.NewMem(), ir.FromString("alone"))
	if !errors.Is(err, scheme.ErrSchemaViolation) {
		t.Fatalf("expected schema violation, got %v", err)
	}
}

func TestEncodeOverflow(t *testing.T) {
	th := layout.DefaultThresholds()
	th.MaxColumns = 3
	_, err := Encode(grid.NewMem(), mustYAML(t, "- {a: 1, b: 2, c: 3, d: 4}\n"), WithLayoutThresholds(th))
	if !errors.Is(err, layout.ErrLayoutOverflow) {
		t.Fatalf("expected overflow, got %v", err)
	}
}

func TestEncodeMarkerFieldNames(t *testing.T) {
	for _, src := range []string{
		"{a: 1, \"^\": 2}\n",
		"{a: 1, \"x$[]\": 2}\n",
		"{a: 1, \" padded \": 2}\n",
		"{a: 1, \"$value\": 2}\n",
		"- {a: 1, \"${}\": 2}\n",
	} {
		for _, s := range layout.Strategies() {
			t.Run(src+"/"+s.String(), func(t *testing.T) {
				g := grid.NewMem()
				_, err := Encode(g, mustYAML(t, src), WithStrategy(s))
				if !errors.Is(err, scheme.ErrSchemaViolation) {
					t.Fatalf("expected schema violation, got %v\n%s", err, grid.Render(g))
				}
			})
		}
	}
}
