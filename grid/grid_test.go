package grid

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/gridtree/ir"
)

func TestMemWriteOnce(t *testing.T) {
	m := NewMem()
	if err := m.SetCell(0, 0, ir.FromString("a")); err != nil {
		t.Fatal(err)
	}
	err := m.SetCell(0, 0, ir.FromString("b"))
	if !errors.Is(err, ErrCellWritten) {
		t.Fatalf("expected ErrCellWritten, got %v", err)
	}
	if err := m.SetCell(1, 0, ir.Array()); !errors.Is(err, ErrNotScalar) {
		t.Fatalf("expected ErrNotScalar, got %v", err)
	}
}

func TestMemMergeOverlap(t *testing.T) {
	tests := []struct {
		name    string
		regions []Region
		wantErr bool
	}{
		{"disjoint", []Region{{0, 0, 2}, {0, 2, 3}}, false},
		{"other row", []Region{{0, 0, 4}, {1, 1, 2}}, false},
		{"overlap", []Region{{0, 0, 3}, {0, 2, 2}}, true},
		{"contained", []Region{{2, 0, 5}, {2, 1, 1}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMem()
			var err error
			for _, r := range tt.regions {
				if err = m.MergeRegion(r); err != nil {
					break
				}
			}
			if tt.wantErr != errors.Is(err, ErrMergeOverlap) {
				t.Fatalf("wantErr %v got %v", tt.wantErr, err)
			}
		})
	}
}

func TestFromRows(t *testing.T) {
	m := FromRows([][]string{
		{"$[]", "", ""},
		{"${}", "", ""},
		{"id", "name", "7"},
	}, true)
	if m.RowCount() != 3 || m.MaxColumn() != 3 {
		t.Fatalf("dims %d x %d", m.RowCount(), m.MaxColumn())
	}
	if v := m.Cell(2, 2); v.Type != ir.NumberType {
		t.Errorf("expected retyped number, got %s", v.Type)
	}
	if m.Cell(0, 1) != nil {
		t.Error("expected empty cell")
	}
	if !RowEmpty(m, 0, 1, 3) {
		t.Error("expected empty tail")
	}
}

func TestXLSXRoundTrip(t *testing.T) {
	w, err := NewXLSXWriter("data")
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	src := NewMem()
	cells := []struct {
		row, col int
		v        *ir.Node
	}{
		{0, 0, ir.FromString("$[]")},
		{1, 0, ir.FromString("id")},
		{1, 1, ir.FromString("ok")},
		{2, 0, ir.FromInt(42)},
		{2, 1, ir.FromBool(true)},
		{3, 0, ir.FromFloat(1.5)},
		{3, 1, ir.FromString("123")},
	}
	for _, c := range cells {
		if err := w.SetCell(c.row, c.col, c.v); err != nil {
			t.Fatal(err)
		}
		if err := src.SetCell(c.row, c.col, c.v); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.MergeRegion(Region{Row: 0, Col: 0, Span: 2}); err != nil {
		t.Fatal(err)
	}
	buf := bytes.NewBuffer(nil)
	if err := w.Write(buf); err != nil {
		t.Fatal(err)
	}
	got, err := ReadXLSX(buf, "")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(src.Texts(), got.Texts()); diff != "" {
		t.Errorf("texts differ (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Region{{Row: 0, Col: 0, Span: 2}}, got.MergedRegions()); diff != "" {
		t.Errorf("regions differ (-want +got):\n%s", diff)
	}
	if v := got.Cell(2, 0); v.Type != ir.NumberType || *v.Int64 != 42 {
		t.Errorf("number cell: %s", v.Compact())
	}
	if v := got.Cell(2, 1); v.Type != ir.BoolType || !v.Bool {
		t.Errorf("bool cell: %s", v.Compact())
	}
	if v := got.Cell(3, 1); v.Type != ir.StringType {
		t.Errorf("string cell lost its type: %s", v.Type)
	}
}

func TestRender(t *testing.T) {
	m := FromRows([][]string{
		{"${}", ""},
		{"a", "b"},
		{"$scheme_end", ""},
		{"1", "2"},
	}, false)
	out := Render(m, RenderCells(func(_, _ int, text string) string {
		return "<" + text + ">"
	}))
	for _, want := range []string{"A", "B", "<a>", "<$scheme_end>", "<2>"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
	short := Render(m, RenderMaxRows(1))
	if strings.Contains(short, "$scheme_end") {
		t.Errorf("max rows not honored:\n%s", short)
	}
}
