package grid

import (
	"fmt"
	"slices"

	"github.com/signadot/gridtree/ir"
)

type cellKey struct {
	row, col int
}

// Mem is an in-memory grid implementing both Reader and Writer.
type Mem struct {
	cells   map[cellKey]*ir.Node
	rows    int
	cols    int
	regions regionIndex
}

func NewMem() *Mem {
	return &Mem{cells: map[cellKey]*ir.Node{}}
}

// FromRows builds a grid from literal rows of cell texts.  Empty strings are
// empty cells; other texts become string scalars, re-typed when retype is
// set.
func FromRows(rows [][]string, retype bool) *Mem {
	m := NewMem()
	for r, row := range rows {
		for c, text := range row {
			if text == "" {
				continue
			}
			v := ir.FromString(text)
			if retype {
				v.ReType()
			}
			m.put(r, c, v)
		}
	}
	return m
}

func (m *Mem) put(row, col int, v *ir.Node) {
	m.cells[cellKey{row, col}] = v
	m.rows = max(m.rows, row+1)
	m.cols = max(m.cols, col+1)
}

func (m *Mem) Cell(row, col int) *ir.Node {
	return m.cells[cellKey{row, col}]
}

func (m *Mem) RowCount() int {
	return m.rows
}

func (m *Mem) MaxColumn() int {
	return m.cols
}

func (m *Mem) MergedRegions() []Region {
	return slices.Clone(m.regions.all)
}

func (m *Mem) SetCell(row, col int, v *ir.Node) error {
	if err := checkScalar(row, col, v); err != nil {
		return err
	}
	k := cellKey{row, col}
	if _, ok := m.cells[k]; ok {
		return fmt.Errorf("%w: (%d, %d)", ErrCellWritten, row, col)
	}
	if v == nil {
		v = ir.FromString("")
	}
	m.put(row, col, v)
	return nil
}

func (m *Mem) MergeRegion(r Region) error {
	if err := m.regions.add(r); err != nil {
		return err
	}
	m.rows = max(m.rows, r.Row+1)
	m.cols = max(m.cols, r.End())
	return nil
}

// Texts returns the grid contents as cell texts, "" for empty cells.
func (m *Mem) Texts() [][]string {
	res := make([][]string, m.rows)
	for r := range res {
		res[r] = make([]string, m.cols)
		for c := range res[r] {
			if v := m.Cell(r, c); !IsEmpty(v) {
				res[r][c] = v.Text()
			}
		}
	}
	return res
}

// Copy writes every cell and region of src into dst.
func Copy(dst Writer, src Reader) error {
	for r := 0; r < src.RowCount(); r++ {
		for c := 0; c < src.MaxColumn(); c++ {
			v := src.Cell(r, c)
			if v == nil {
				continue
			}
			if err := dst.SetCell(r, c, v); err != nil {
				return err
			}
		}
	}
	for _, reg := range src.MergedRegions() {
		if err := dst.MergeRegion(reg); err != nil {
			return err
		}
	}
	return nil
}
