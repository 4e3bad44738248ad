package layout

import (
	"errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/gridtree/analyze"
	"github.com/signadot/gridtree/ir"
	"github.com/signadot/gridtree/scheme"
)

func obj(kvs ...any) *ir.Node {
	res := ir.Object()
	for i := 0; i < len(kvs); i += 2 {
		res.Set(kvs[i].(string), val(kvs[i+1]))
	}
	return res
}

func arr(vs ...any) *ir.Node {
	res := ir.Array()
	for _, v := range vs {
		res.Append(val(v))
	}
	return res
}

func val(v any) *ir.Node {
	switch x := v.(type) {
	case *ir.Node:
		return x
	case string:
		return ir.FromString(x)
	case int:
		return ir.FromInt(int64(x))
	}
	panic(v)
}

func mustAnalyze(t *testing.T, doc *ir.Node) *analyze.StructurePattern {
	t.Helper()
	sp, err := analyze.Analyze(doc)
	if err != nil {
		t.Fatal(err)
	}
	return sp
}

func checkRegions(t *testing.T, p *Plan) {
	t.Helper()
	type span struct{ from, to int }
	rows := map[int][]span{}
	p.Root.Walk(func(s *Slot) {
		for _, o := range rows[s.Row] {
			if s.Col < o.to && o.from < s.Col+s.Span {
				t.Errorf("slot %s at row %d cols %d+%d overlaps %d-%d", s.Kind, s.Row, s.Col, s.Span, o.from, o.to)
			}
		}
		rows[s.Row] = append(rows[s.Row], span{s.Col, s.Col + s.Span})
	})
	seen := map[int]string{}
	for path, c := range p.Columns {
		if prev, ok := seen[c]; ok {
			t.Errorf("column %d shared by %s and %s", c, prev, path)
		}
		seen[c] = path
		if c < 0 || c >= p.Width {
			t.Errorf("column %d of %s outside width %d", c, path, p.Width)
		}
	}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name string
		m    Metrics
		want Strategy
	}{
		{"simple", Metrics{Depth: 2, IsSimpleStructure: true}, Simple},
		{"sequence with arrays", Metrics{RootIsSequence: true, RootHasArrayFields: true, HasOptionalNesting: true}, Horizontal},
		{"large nested", Metrics{HasLargeNestedArrays: true, TotalNestedElements: 6, LargeTotalElements: 5, HasOptionalNesting: true}, Horizontal},
		{"large but few", Metrics{HasLargeNestedArrays: true, TotalNestedElements: 5, LargeTotalElements: 5}, Mixed},
		{"optional", Metrics{HasOptionalNesting: true}, Vertical},
		{"variable depth", Metrics{HasVariableDepth: true}, Vertical},
		{"otherwise", Metrics{Depth: 3, HasArrays: true}, Mixed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Select(tt.m); got != tt.want {
				t.Errorf("got %s want %s", got, tt.want)
			}
		})
	}
}

func TestSelectIdempotent(t *testing.T) {
	sp := mustAnalyze(t, obj("title", "x", "items", arr(obj("a", 1), obj("a", 2, "b", 3))))
	m1 := ComputeMetrics(sp, DefaultThresholds())
	m2 := ComputeMetrics(sp, DefaultThresholds())
	if diff := cmp.Diff(m1, m2); diff != "" {
		t.Fatal(diff)
	}
	if Select(m1) != Select(m2) {
		t.Errorf("selection differs")
	}
	if Select(m1) != Vertical {
		t.Errorf("expected vertical for optional nested fields, got %s", Select(m1))
	}
}

func TestTagsUnifiedWidth(t *testing.T) {
	sp := mustAnalyze(t, arr(obj("id", 1, "tags", arr(1, 2)), obj("id", 2, "tags", arr(1, 2, 3))))
	p, err := Auto(sp)
	if err != nil {
		t.Fatal(err)
	}
	if p.Strategy != Horizontal {
		t.Errorf("strategy %s", p.Strategy)
	}
	want := map[string]int{"[].id": 0, "[].tags[0]": 1, "[].tags[1]": 2, "[].tags[2]": 3}
	if diff := cmp.Diff(want, p.Columns); diff != "" {
		t.Errorf("columns (-want +got):\n%s", diff)
	}
	if p.Width != 4 || p.Depth != 4 {
		t.Errorf("width %d depth %d", p.Width, p.Depth)
	}
	var tags *Slot
	p.Root.Walk(func(s *Slot) {
		if s.Name == "tags" {
			tags = s
		}
	})
	if tags == nil || tags.Span != 3 {
		t.Fatalf("tags slot %+v", tags)
	}
	checkRegions(t, p)
}

func TestColumnOrder(t *testing.T) {
	sp := mustAnalyze(t, arr(
		obj("list", arr(1), "a", 1, "m", obj("x", 1, "y", 2)),
		obj("a", 2, "late", 3),
	))
	p, err := Build(sp, Horizontal)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"[].a", "[].m.x", "[].m.y", "[].late", "[].list[0]"}
	if diff := cmp.Diff(want, p.Paths()); diff != "" {
		t.Errorf("paths (-want +got):\n%s", diff)
	}
	checkRegions(t, p)
}

func TestPerIndexColumns(t *testing.T) {
	pair := func() *ir.Node {
		return arr(obj("name", "n"), obj("total", 1, "tax", 2))
	}
	sp := mustAnalyze(t, arr(obj("p", pair()), obj("p", pair())))
	p, err := Build(sp, Horizontal)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"[].p[0].name", "[].p[1].total", "[].p[1].tax"}
	if diff := cmp.Diff(want, p.Paths()); diff != "" {
		t.Errorf("paths (-want +got):\n%s", diff)
	}
	checkRegions(t, p)
}

func TestVerticalMapRoot(t *testing.T) {
	sp := mustAnalyze(t, obj("title", "t", "items", arr(obj("a", 1), obj("a", 2, "b", 3)), "meta", obj("tags", arr("x", "y"))))
	p, err := Build(sp, Vertical)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]int{".title": 0, ".meta.tags[]": 1, ".items[].a": 2, ".items[].b": 3}
	if diff := cmp.Diff(want, p.Columns); diff != "" {
		t.Errorf("columns (-want +got):\n%s", diff)
	}
	if !p.Vertical[".items"] || !p.Vertical[".meta.tags"] {
		t.Errorf("vertical set %v", p.Vertical)
	}
	checkRegions(t, p)
	tr := p.Scheme()
	if err := tr.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestGroupKey(t *testing.T) {
	sp := mustAnalyze(t, arr(
		obj("v", 1, "g", "x", "sub", obj("k", 1)),
		obj("v", 2, "g", "x"),
		obj("v", 3, "g", "y"),
		obj("v", 4, "g", "y"),
	))
	p, err := Auto(sp)
	if err != nil {
		t.Fatal(err)
	}
	if p.Strategy != Vertical || p.GroupKey != "g" {
		t.Fatalf("strategy %s group key %q", p.Strategy, p.GroupKey)
	}
	if diff := cmp.Diff([]string{"[].g", "[].v", "[].sub.k"}, p.Paths()); diff != "" {
		t.Errorf("paths (-want +got):\n%s", diff)
	}
}

func TestKeyedColumns(t *testing.T) {
	var elems []any
	for _, k := range []string{"a", "b", "c", "d", "e", "f"} {
		elems = append(elems, obj("attrs", obj(k, 1)))
	}
	elems = append(elems, obj("attrs", obj("a", 1, "b", 2)))
	p, err := Build(mustAnalyze(t, arr(elems...)), Horizontal)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"[].attrs.$key[0]", "[].attrs.$value[0]", "[].attrs.$key[1]", "[].attrs.$value[1]"}
	if diff := cmp.Diff(want, p.Paths()); diff != "" {
		t.Errorf("paths (-want +got):\n%s", diff)
	}
	if err := p.Scheme().Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestOverflow(t *testing.T) {
	var tags []any
	for i := 0; i < 20; i++ {
		tags = append(tags, i)
	}
	sp := mustAnalyze(t, arr(obj("id", 1, "tags", arr(tags...))))
	th := DefaultThresholds()
	th.MaxColumns = 10
	_, err := Build(sp, Horizontal, WithThresholds(th))
	if !errors.Is(err, ErrLayoutOverflow) {
		t.Fatalf("expected overflow, got %v", err)
	}
}

func TestScalarRootRejected(t *testing.T) {
	_, err := Auto(mustAnalyze(t, ir.FromInt(3)))
	if !errors.Is(err, scheme.ErrSchemaViolation) {
		t.Fatalf("expected schema violation, got %v", err)
	}
}

func TestRule(t *testing.T) {
	r, err := CompileRule(`RootIsSequence && Depth >= 2 ? "vertical" : ""`)
	if err != nil {
		t.Fatal(err)
	}
	sp := mustAnalyze(t, arr(obj("a", 1), obj("a", 2)))
	p, err := Auto(sp, WithRule(r))
	if err != nil {
		t.Fatal(err)
	}
	if p.Strategy != Vertical {
		t.Errorf("rule ignored: %s", p.Strategy)
	}
	p, err = Auto(mustAnalyze(t, obj("a", 1)), WithRule(r))
	if err != nil {
		t.Fatal(err)
	}
	if p.Strategy != Simple {
		t.Errorf("deferred rule should select simple, got %s", p.Strategy)
	}
	if _, err := CompileRule(`Depth +`); err == nil {
		t.Errorf("expected compile error")
	}
	bad, err := CompileRule(`"diagonal"`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Auto(sp, WithRule(bad)); err == nil {
		t.Errorf("expected unknown strategy error")
	}
}

func TestMarkerFieldNames(t *testing.T) {
	tests := []struct {
		name string
		v    any
		ok   bool
	}{
		{"^", 2, false},
		{"$value", 2, false},
		{"$key", 2, false},
		{"x$[]", 2, false},
		{"${}", 2, false},
		{" a ", 2, false},
		{"", 2, false},
		{"$scheme_end", 2, false},
		{"a b", 2, true},
		{"x$[]", arr(1, 2), true},
		{"^", obj("b", 1), true},
		{" c", obj("b", 1), false},
	}
	for _, tt := range tests {
		t.Run(strconv.Quote(tt.name), func(t *testing.T) {
			docs := []*ir.Node{
				obj("a", 1, tt.name, tt.v),
				arr(obj("a", 1, tt.name, tt.v)),
			}
			for _, doc := range docs {
				for _, s := range Strategies() {
					_, err := Build(mustAnalyze(t, doc), s)
					if tt.ok {
						if err != nil {
							t.Errorf("%s: %v", s, err)
						}
						continue
					}
					var serr *scheme.Error
					if !errors.As(err, &serr) || !errors.Is(err, scheme.ErrSchemaViolation) {
						t.Fatalf("%s: expected schema violation, got %v", s, err)
					}
					prefix := ""
					if doc.Type == ir.ArrayType {
						prefix = RowPath("")
					}
					if want := FieldPath(prefix, tt.name); serr.Path != want {
						t.Errorf("%s: path %q, want %q", s, serr.Path, want)
					}
				}
			}
		})
	}
}
