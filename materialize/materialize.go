// Package materialize writes a tree onto a grid following a layout plan:
// the marker rows of the plan's scheme, the $scheme_end row, then the
// data rows.
package materialize

import (
	"fmt"
	"log/slog"

	"github.com/signadot/gridtree/debug"
	"github.com/signadot/gridtree/grid"
	"github.com/signadot/gridtree/ir"
	"github.com/signadot/gridtree/layout"
	"github.com/signadot/gridtree/scheme"
)

// RowGroup is a run of data rows [Start, End) whose elements share the
// plan's group key value.
type RowGroup struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Key   string `json:"key"`
}

type Result struct {
	DataStart int              `json:"dataStart"`
	Rows      int              `json:"rows"`
	Cells     int              `json:"cells"`
	RowGroups []RowGroup       `json:"rowGroups,omitempty"`
	Warnings  []scheme.Warning `json:"warnings,omitempty"`
}

type writeOpts struct {
	logger *slog.Logger
}

type WriteOption func(*writeOpts)

func Logger(l *slog.Logger) WriteOption {
	return func(o *writeOpts) {
		if l != nil {
			o.logger = l
		}
	}
}

// Write materializes doc on w according to p.
func Write(w grid.Writer, p *layout.Plan, doc *ir.Node, opts ...WriteOption) (*Result, error) {
	o := &writeOpts{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(o)
	}
	if doc == nil || doc.Type != p.RootKind {
		got := "nil"
		if doc != nil {
			got = doc.Type.String()
		}
		return nil, &scheme.Error{
			Err:     scheme.ErrSchemaViolation,
			Kind:    p.Root.Kind,
			Path:    "$",
			Message: fmt.Sprintf("plan is for a %s root, got %s", p.RootKind, got),
		}
	}
	m := &materializer{w: w, p: p, res: &Result{DataStart: p.DataStart()}}
	if err := m.scheme(); err != nil {
		return nil, err
	}
	if err := m.data(doc); err != nil {
		return nil, err
	}
	for _, wn := range m.res.Warnings {
		o.logger.Warn(wn.Message, "kind", wn.Kind.String(), "path", wn.Path)
	}
	if debug.Materialize() {
		debug.Logf("materialized %d rows, %d cells from row %d\n", m.res.Rows, m.res.Cells, m.res.DataStart)
	}
	return m.res, nil
}

type materializer struct {
	w   grid.Writer
	p   *layout.Plan
	res *Result

	maps   map[string]bool
	arrays map[string]bool
}

func marker(s string) *ir.Node {
	return ir.FromString(s)
}

func (m *materializer) merge(row, col, span int) error {
	if span < 2 {
		return nil
	}
	return m.w.MergeRegion(grid.Region{Row: row, Col: col, Span: span})
}

// scheme writes the marker rows, ignore fill and the end row.
func (m *materializer) scheme() error {
	var err error
	m.p.Root.Walk(func(s *layout.Slot) {
		if err != nil {
			return
		}
		if err = m.w.SetCell(s.Row, s.Col, marker(scheme.Marker(s.Kind, s.Name))); err != nil {
			return
		}
		if err = m.merge(s.Row, s.Col, s.Span); err != nil {
			return
		}
		if len(s.Children) > 0 && s.Kind != scheme.Key {
			return
		}
		for r := s.Row + 1; r < m.p.Depth && err == nil; r++ {
			err = m.w.SetCell(r, s.Col, marker(scheme.MarkIgnore))
		}
	})
	if err != nil {
		return err
	}
	if err := m.w.SetCell(m.p.Depth, 0, marker(scheme.MarkSchemeEnd)); err != nil {
		return err
	}
	return m.merge(m.p.Depth, 0, m.p.Width)
}

func (m *materializer) data(doc *ir.Node) error {
	m.maps, m.arrays = map[string]bool{}, map[string]bool{}
	for _, c := range m.p.Root.Children {
		c.Walk(func(s *layout.Slot) {
			switch s.Kind {
			case scheme.Map:
				m.maps[s.Path] = true
			case scheme.Array:
				m.arrays[s.Path] = true
			}
		})
	}
	row := m.p.DataStart()
	if doc.Type == ir.ObjectType {
		f := &flattener{m: m}
		f.value(doc, "", 0)
		n, err := m.write(row, f.cells)
		if err != nil {
			return err
		}
		m.res.Rows = n
		return nil
	}
	var (
		group *RowGroup
		prev  *ir.Node
	)
	for i, e := range doc.Values {
		f := &flattener{m: m}
		f.value(e, layout.RowPath(""), 0)
		n, err := m.write(row, f.cells)
		if err != nil {
			return err
		}
		if n == 0 {
			m.warn(fmt.Sprintf("$[%d]", i), fmt.Sprintf("element has no cells and was skipped; the grid holds one element fewer than the %d of the tree", len(doc.Values)))
			continue
		}
		if m.p.GroupKey != "" {
			key, k := "", ir.Get(e, m.p.GroupKey)
			if k != nil {
				key = k.Text()
			} else {
				k = ir.Null()
			}
			if group == nil || ir.Compare(prev, k) != 0 {
				m.res.RowGroups = append(m.res.RowGroups, RowGroup{Start: row, End: row, Key: key})
				group = &m.res.RowGroups[len(m.res.RowGroups)-1]
			}
			group.End = row + n
			prev = k
		}
		row += n
		m.res.Rows += n
	}
	return nil
}

// write places cells starting at row and returns the rows spanned.
func (m *materializer) write(row int, cells []cell) (int, error) {
	n := 0
	for _, c := range cells {
		col, ok := m.p.Columns[c.path]
		if !ok {
			m.warn(c.path, fmt.Sprintf("%s value at %s has no column", c.v.Type, c.v.Path()))
			continue
		}
		v := c.v.Clone()
		v.Parent = nil
		if err := m.w.SetCell(row+c.row, col, v); err != nil {
			return 0, fmt.Errorf("writing %s: %w", c.path, err)
		}
		m.res.Cells++
		n = max(n, c.row+1)
	}
	return n, nil
}

func (m *materializer) warn(path, msg string) {
	m.res.Warnings = append(m.res.Warnings, scheme.Warning{
		Kind:    scheme.DroppedValue,
		Path:    path,
		Message: msg,
	})
}
