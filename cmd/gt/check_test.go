package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/gridtree/grid"
	"github.com/signadot/gridtree/ir"
)

func TestWriteDiff(t *testing.T) {
	from := ir.FromKeyVals([]ir.KeyVal{
		{Key: "a", Val: ir.FromInt(1)},
		{Key: "b", Val: ir.FromInt(2)},
	})
	to := ir.FromKeyVals([]ir.KeyVal{
		{Key: "a", Val: ir.FromInt(1)},
		{Key: "b", Val: ir.FromInt(3)},
	})
	buf := &bytes.Buffer{}
	if err := writeDiff(buf, from, to, nil); err != nil {
		t.Fatal(err)
	}
	want := " a: 1\n-b: 2\n+b: 3\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("diff output (-want +got):\n%s", diff)
	}
}

func TestColorCells(t *testing.T) {
	g := grid.FromRows([][]string{
		{"$[]", ""},
		{"${}", ""},
		{"id", "ok"},
		{"$scheme_end", ""},
		{"7", "x"},
	}, false)
	paint := NewColors().Cells(g)
	for _, text := range []string{"$[]", "id", "$scheme_end"} {
		got := paint(0, 0, text)
		if got == text || !strings.Contains(got, text) {
			t.Errorf("scheme cell %q rendered as %q", text, got)
		}
	}
	if got := paint(4, 0, "7"); got != "7" {
		t.Errorf("data cell rendered as %q", got)
	}
}
