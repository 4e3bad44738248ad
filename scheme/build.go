package scheme

import (
	"fmt"

	"github.com/signadot/gridtree/debug"
	"github.com/signadot/gridtree/grid"
)

// Build reads the scheme region of a grid.  The region starts at the first
// non-empty cell of the first non-empty row, which must be a container
// marker, and ends at the row whose first non-empty cell is $scheme_end.
//
// Spans come from merged regions.  A container cell that is not merged
// extends to the next non-empty cell of its row within its parent; a leaf
// that is not merged covers one column.
func Build(r grid.Reader) (*Tree, error) {
	b := &builder{r: r, regions: r.MergedRegions(), width: r.MaxColumn()}
	return b.build()
}

type builder struct {
	r       grid.Reader
	regions []grid.Region
	width   int
	t       *Tree
}

func (b *builder) text(row, col int) string {
	v := b.r.Cell(row, col)
	if grid.IsEmpty(v) {
		return ""
	}
	return v.Text()
}

func (b *builder) firstInRow(row int) (int, string) {
	for c := 0; c < b.width; c++ {
		if s := b.text(row, c); s != "" {
			return c, s
		}
	}
	return -1, ""
}

func (b *builder) build() (*Tree, error) {
	startRow, startCol, rootText := -1, -1, ""
	for row := 0; row < b.r.RowCount(); row++ {
		if c, s := b.firstInRow(row); c >= 0 {
			startRow, startCol, rootText = row, c, s
			break
		}
	}
	if startRow < 0 {
		return nil, &Error{Err: ErrSchemaViolation, Message: "grid has no scheme"}
	}
	endRow := -1
	for row := startRow + 1; row < b.r.RowCount(); row++ {
		if _, s := b.firstInRow(row); IsSchemeEnd(s) {
			endRow = row
			break
		}
	}
	if endRow < 0 {
		return nil, &Error{
			Err:     ErrSchemaViolation,
			Kind:    Map,
			Row:     startRow,
			Col:     startCol,
			Message: fmt.Sprintf("missing %s row", MarkSchemeEnd),
		}
	}
	kind, name := ParseMarker(rootText)
	b.t = NewTree(kind, startRow, startCol, b.span(kind, startRow, startCol, b.width))
	b.t.Nodes[0].Name = name
	b.t.EndRow = endRow
	b.t.DataStart = endRow + 1
	if !kind.IsContainer() {
		return nil, b.t.Errorf(ErrSchemaViolation, 0, "unsupported root %q", rootText)
	}
	if name != "" {
		b.t.Warnings = append(b.t.Warnings, Warning{
			Kind:    DroppedValue,
			Path:    "$",
			Message: fmt.Sprintf("root name %q is ignored", name),
		})
	}

	work := []int{0}
	for len(work) > 0 {
		i := work[0]
		work = work[1:]
		kids, err := b.children(i)
		if err != nil {
			return nil, err
		}
		work = append(work, kids...)
	}
	if err := b.t.Validate(); err != nil {
		return nil, err
	}
	if debug.Scheme() {
		debug.Logf("scheme: %d nodes, rows %d-%d, data from row %d\n", len(b.t.Nodes), startRow, endRow-1, b.t.DataStart)
	}
	return b.t, nil
}

// span computes the width of the cell at (row, col) bounded by limit.
func (b *builder) span(k Kind, row, col, limit int) int {
	if s := grid.SpanAt(b.regions, row, col); s > 1 {
		return min(s, limit-col)
	}
	if !k.IsContainer() {
		return 1
	}
	c := col + 1
	for c < limit && b.text(row, c) == "" && !b.merged(row, c) {
		c++
	}
	return c - col
}

// merged reports whether (row, col) lies inside, but not at the start of, a
// merged region.
func (b *builder) merged(row, col int) bool {
	for _, r := range b.regions {
		if r.Row == row && r.Col < col && col < r.End() {
			return true
		}
	}
	return false
}

// children attaches the nodes of the row below container i and returns the
// indices of the new containers.  Leaves get their covered rows checked.
func (b *builder) children(i int) ([]int, error) {
	n := b.t.Nodes[i]
	if !n.Kind.IsContainer() {
		return nil, b.checkBelow(i, n.Row+1)
	}
	row := n.Row + 1
	if row >= b.t.EndRow {
		return nil, nil
	}
	end := n.Col + n.Span
	var res []int
	for c := n.Col; c < end; {
		s := b.text(row, c)
		if s == "" {
			c++
			continue
		}
		kind, name := ParseMarker(s)
		switch kind {
		case Key:
			if c+1 >= end || b.text(row, c+1) != MarkValue {
				ki := b.t.Add(i, Node{Kind: Key, Row: row, Col: c})
				return nil, b.t.Errorf(ErrSchemaViolation, ki, "%s must be followed by %s", MarkKey, MarkValue)
			}
			ki := b.t.Add(i, Node{Kind: Key, Row: row, Col: c})
			vi := b.t.Add(ki, Node{Kind: Value, Row: row, Col: c + 1})
			for _, li := range []int{ki, vi} {
				if err := b.checkBelow(li, row+1); err != nil {
					return nil, err
				}
			}
			c += 2
			continue
		}
		span := b.span(kind, row, c, end)
		ci := b.t.Add(i, Node{Kind: kind, Name: name, Row: row, Col: c, Span: span})
		if kind.IsContainer() {
			res = append(res, ci)
		} else if err := b.checkBelow(ci, row+1); err != nil {
			return nil, err
		}
		c += span
	}
	return res, nil
}

// checkBelow verifies that the columns of leaf i hold nothing but ignore
// markers from row down to the end of the scheme.
func (b *builder) checkBelow(i, row int) error {
	n := &b.t.Nodes[i]
	for r := row; r < b.t.EndRow; r++ {
		for c := n.Col; c < n.Col+n.Span; c++ {
			s := b.text(r, c)
			if s == "" || s == MarkIgnore {
				continue
			}
			return b.t.Errorf(ErrSchemaViolation, i, "unexpected %q at R%dC%d below a %s", s, r+1, c+1, n.Kind)
		}
	}
	return nil
}
