// Package grid defines the cell surface the codec reads and writes: a
// zero-based addressable grid of scalar cells with single-row merged
// regions.
package grid

import (
	"errors"
	"fmt"

	"github.com/signadot/gridtree/ir"
)

var (
	ErrCellWritten  = errors.New("cell already written")
	ErrMergeOverlap = errors.New("merged regions overlap")
	ErrOutOfRange   = errors.New("cell out of range")
	ErrNotScalar    = ir.ErrNotScalar
)

// Region is a run of Span cells in one row, starting at Col, treated as a
// single logical cell.
type Region struct {
	Row  int `json:"row"`
	Col  int `json:"col"`
	Span int `json:"span"`
}

// End returns the column just past the region.
func (r Region) End() int {
	return r.Col + r.Span
}

func (r Region) Overlaps(o Region) bool {
	return r.Row == o.Row && r.Col < o.End() && o.Col < r.End()
}

func (r Region) String() string {
	return fmt.Sprintf("row %d cols %d-%d", r.Row, r.Col, r.End()-1)
}

// Reader gives read access to a grid.  Cell returns nil for empty cells.
type Reader interface {
	Cell(row, col int) *ir.Node
	RowCount() int
	MaxColumn() int
	MergedRegions() []Region
}

// Writer gives write-once access to a grid.
type Writer interface {
	SetCell(row, col int, v *ir.Node) error
	MergeRegion(r Region) error
}

// IsEmpty reports whether a cell value carries no data.
func IsEmpty(v *ir.Node) bool {
	return v == nil || (v.Type == ir.StringType && v.String == "")
}

// SpanAt returns the span of the merged region starting at (row, col), or 1.
func SpanAt(regions []Region, row, col int) int {
	for _, r := range regions {
		if r.Row == row && r.Col == col {
			return r.Span
		}
	}
	return 1
}

// RowEmpty reports whether every cell of row in [from, to) is empty.
func RowEmpty(r Reader, row, from, to int) bool {
	for c := from; c < to; c++ {
		if !IsEmpty(r.Cell(row, c)) {
			return false
		}
	}
	return true
}

// regionIndex enforces non-overlap of merged regions per row.
type regionIndex struct {
	all   []Region
	byRow map[int][]int
}

func (x *regionIndex) add(r Region) error {
	if r.Span < 1 || r.Row < 0 || r.Col < 0 {
		return fmt.Errorf("%w: invalid region %s", ErrOutOfRange, r)
	}
	if x.byRow == nil {
		x.byRow = map[int][]int{}
	}
	for _, i := range x.byRow[r.Row] {
		if x.all[i].Overlaps(r) {
			return fmt.Errorf("%w: %s and %s", ErrMergeOverlap, x.all[i], r)
		}
	}
	x.byRow[r.Row] = append(x.byRow[r.Row], len(x.all))
	x.all = append(x.all, r)
	return nil
}

func checkScalar(row, col int, v *ir.Node) error {
	if row < 0 || col < 0 {
		return fmt.Errorf("%w: (%d, %d)", ErrOutOfRange, row, col)
	}
	if v != nil && !v.Type.IsLeaf() {
		return fmt.Errorf("%w: %s at (%d, %d)", ErrNotScalar, v.Type, row, col)
	}
	return nil
}
