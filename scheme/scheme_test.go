package scheme

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/gridtree/grid"
)

func TestParseMarker(t *testing.T) {
	tests := []struct {
		text string
		kind Kind
		name string
	}{
		{"$[]", Array, ""},
		{"tags$[]", Array, "tags"},
		{"${}", Map, ""},
		{" meta${} ", Map, "meta"},
		{"^", Ignore, ""},
		{"$key", Key, ""},
		{"$value", Value, ""},
		{"id", Property, "id"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			k, name := ParseMarker(tt.text)
			if k != tt.kind || name != tt.name {
				t.Errorf("got (%s, %q) want (%s, %q)", k, name, tt.kind, tt.name)
			}
			if tt.kind == Ignore || tt.kind == Key || tt.kind == Value {
				return
			}
			k2, name2 := ParseMarker(Marker(k, name))
			if k2 != k || name2 != name {
				t.Errorf("Marker does not invert ParseMarker: got (%s, %q)", k2, name2)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	g := grid.FromRows([][]string{
		{"${}", "", "", ""},
		{"id", "tags$[]", "", "meta${}"},
		{"^", "$value", "$value", "note"},
		{"$scheme_end"},
		{"1", "a", "b", "x"},
	}, false)
	tr, err := Build(g)
	if err != nil {
		t.Fatal(err)
	}
	if tr.EndRow != 3 || tr.DataStart != 4 {
		t.Errorf("end %d data %d", tr.EndRow, tr.DataStart)
	}
	if tr.Width() != 4 {
		t.Errorf("width %d", tr.Width())
	}
	type flat struct {
		Kind  Kind
		Name  string
		Col   int
		Span  int
		Depth int
	}
	var got []flat
	for _, i := range tr.Linearize() {
		n := tr.Node(i)
		got = append(got, flat{n.Kind, n.Name, n.Col, n.Span, n.Depth})
	}
	want := []flat{
		{Map, "", 0, 4, 0},
		{Property, "id", 0, 1, 1},
		{Array, "tags", 1, 2, 1},
		{Value, "", 1, 1, 2},
		{Value, "", 2, 1, 2},
		{Map, "meta", 3, 1, 1},
		{Property, "note", 3, 1, 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("linearized scheme mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3}, tr.DataColumns()); diff != "" {
		t.Errorf("data columns (-want +got):\n%s", diff)
	}
	if len(tr.Warnings) != 0 {
		t.Errorf("unexpected warnings %v", tr.Warnings)
	}
}

func TestBuildMergedSpans(t *testing.T) {
	g := grid.FromRows([][]string{
		{"$[]"},
		{"${}"},
		{"id", "items$[]", "", "", ""},
		{"^", "${}", "", "${}", ""},
		{"^", "sku", "qty", "sku", "qty"},
		{"$scheme_end"},
	}, false)
	for _, r := range []grid.Region{{Row: 0, Col: 0, Span: 5}, {Row: 1, Col: 0, Span: 5}, {Row: 2, Col: 1, Span: 4}, {Row: 3, Col: 1, Span: 2}, {Row: 3, Col: 3, Span: 2}, {Row: 5, Col: 0, Span: 5}} {
		if err := g.MergeRegion(r); err != nil {
			t.Fatal(err)
		}
	}
	tr, err := Build(g)
	if err != nil {
		t.Fatal(err)
	}
	var paths []string
	for _, i := range tr.Linearize() {
		if tr.Node(i).Kind.HoldsData() {
			paths = append(paths, tr.Path(i))
		}
	}
	want := []string{"$[].id", "$[].items[].sku", "$[].items[].qty", "$[].items[].sku", "$[].items[].qty"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("paths (-want +got):\n%s", diff)
	}
}

func TestBuildKeyValue(t *testing.T) {
	g := grid.FromRows([][]string{
		{"${}", "", ""},
		{"attrs${}", "", ""},
		{"$key", "$value", ""},
		{"$scheme_end"},
	}, false)
	tr, err := Build(g)
	if err != nil {
		t.Fatal(err)
	}
	attrs := tr.Node(tr.Root().Children[0])
	if len(attrs.Children) != 1 {
		t.Fatalf("attrs has %d children", len(attrs.Children))
	}
	k := tr.Node(attrs.Children[0])
	if k.Kind != Key || len(k.Children) != 1 {
		t.Fatalf("expected a key with one value, got %+v", k)
	}
	v := tr.Node(k.Children[0])
	if v.Kind != Value || v.Col != 1 || v.Depth != k.Depth {
		t.Errorf("value %+v, key depth %d", v, k.Depth)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		err  error
	}{
		{
			name: "missing end",
			rows: [][]string{{"${}"}, {"id"}},
			err:  ErrSchemaViolation,
		},
		{
			name: "empty grid",
			rows: nil,
			err:  ErrSchemaViolation,
		},
		{
			name: "property root",
			rows: [][]string{{"id"}, {"$scheme_end"}},
			err:  ErrSchemaViolation,
		},
		{
			name: "unnamed child of map",
			rows: [][]string{{"${}", ""}, {"$[]", ""}, {"$scheme_end"}},
			err:  ErrSchemaViolation,
		},
		{
			name: "duplicate name",
			rows: [][]string{{"${}", ""}, {"a", "a"}, {"$scheme_end"}},
			err:  ErrDuplicateName,
		},
		{
			name: "key without value",
			rows: [][]string{{"${}", ""}, {"m${}", ""}, {"$key", "x"}, {"$scheme_end"}},
			err:  ErrSchemaViolation,
		},
		{
			name: "content below a leaf",
			rows: [][]string{{"${}", ""}, {"id", "b"}, {"x", "^"}, {"$scheme_end"}},
			err:  ErrSchemaViolation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(grid.FromRows(tt.rows, false))
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
			var se *Error
			if !errors.As(err, &se) {
				t.Fatalf("expected *Error, got %T", err)
			}
		})
	}
}

func TestArrayInArrayWarning(t *testing.T) {
	g := grid.FromRows([][]string{
		{"$[]", ""},
		{"$[]", ""},
		{"$value", "$value"},
		{"$scheme_end"},
	}, false)
	tr, err := Build(g)
	if err != nil {
		t.Fatal(err)
	}
	if len(tr.Warnings) != 1 || tr.Warnings[0].Kind != ArrayInArray {
		t.Fatalf("expected one array-in-array warning, got %v", tr.Warnings)
	}
	if err := tr.Validate(); err != nil {
		t.Fatal(err)
	}
	if len(tr.Warnings) != 1 {
		t.Errorf("revalidation duplicated warnings: %v", tr.Warnings)
	}
}
