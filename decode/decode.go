// Package decode turns a scheme-annotated grid into document trees.
//
// Decoding walks every data row against the linearized scheme with an
// explicit stack of open containers.  Each scheme node carries the row
// depth it was declared at; a node shallower than the top of the stack
// pops containers until its parent is on top, which is how one row
// re-enters nested containers opened by earlier columns.
package decode

import (
	"fmt"
	"log/slog"

	"github.com/signadot/gridtree/debug"
	"github.com/signadot/gridtree/grid"
	"github.com/signadot/gridtree/ir"
	"github.com/signadot/gridtree/scheme"
)

// Result holds the decoded documents.  An Array rooted scheme yields one
// document per run of non-blank data rows; a Map rooted scheme yields
// exactly one document aggregating every row.
type Result struct {
	Documents []*ir.Node
	Rows      int
	Warnings  []scheme.Warning
}

// Grid builds the scheme of r and decodes its data rows.
func Grid(r grid.Reader, opts ...DecodeOption) (*Result, error) {
	t, err := scheme.Build(r)
	if err != nil {
		return nil, err
	}
	return Decode(t, r, opts...)
}

// Decode decodes the data rows of r, starting at t.DataStart, against t.
// On error no document is returned.
func Decode(t *scheme.Tree, r grid.Reader, opts ...DecodeOption) (*Result, error) {
	o := &decodeOpts{logger: discard}
	for _, opt := range opts {
		opt(o)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	d := &decoder{
		t:     t,
		r:     r,
		opts:  o,
		order: t.Linearize(),
	}
	docs, err := d.run()
	if err != nil {
		return nil, err
	}
	res := &Result{Documents: docs, Rows: d.rows}
	res.Warnings = append(res.Warnings, t.Warnings...)
	res.Warnings = append(res.Warnings, d.warnings...)
	for _, w := range res.Warnings {
		o.logger.Warn(w.Message, "kind", w.Kind.String(), "path", w.Path)
	}
	return res, nil
}

type frame struct {
	value *ir.Node
	depth int
	node  int
}

type decoder struct {
	t     *scheme.Tree
	r     grid.Reader
	opts  *decodeOpts
	order []int

	stack    []frame
	created  []*ir.Node
	rows     int
	warnings []scheme.Warning
}

func newContainer(k scheme.Kind) *ir.Node {
	if k == scheme.Map {
		return ir.Object()
	}
	return ir.Array()
}

func (d *decoder) run() ([]*ir.Node, error) {
	root := d.t.Root()
	from, to := root.Col, root.Col+root.Span
	var (
		docs []*ir.Node
		cur  *ir.Node
	)
	for row := d.t.DataStart; row < d.r.RowCount(); row++ {
		if grid.RowEmpty(d.r, row, from, to) {
			if root.Kind == scheme.Array && cur != nil {
				docs = append(docs, cur)
				cur = nil
			}
			continue
		}
		if cur == nil {
			cur = newContainer(root.Kind)
		}
		if err := d.row(cur, row); err != nil {
			return nil, err
		}
		d.rows++
	}
	if cur == nil && root.Kind == scheme.Map {
		cur = ir.Object()
	}
	if cur != nil {
		docs = append(docs, cur)
	}
	return docs, nil
}

func (d *decoder) row(doc *ir.Node, row int) error {
	d.stack = append(d.stack[:0], frame{value: doc, depth: d.t.Root().Depth, node: 0})
	d.created = d.created[:0]
	for _, i := range d.order[1:] {
		n := d.t.Node(i)
		if n.Kind == scheme.Value && d.t.Node(n.Parent).Kind == scheme.Key {
			continue
		}
		for len(d.stack) > 1 && d.stack[len(d.stack)-1].depth >= n.Depth {
			d.stack = d.stack[:len(d.stack)-1]
		}
		top := d.stack[len(d.stack)-1].value
		switch n.Kind {
		case scheme.Ignore:
		case scheme.Map, scheme.Array:
			v, err := d.enter(top, i)
			if err != nil {
				return err
			}
			d.stack = append(d.stack, frame{value: v, depth: n.Depth, node: i})
		case scheme.Property, scheme.Value:
			if err := d.leaf(top, i, row); err != nil {
				return err
			}
		case scheme.Key:
			if err := d.keyed(top, i, row); err != nil {
				return err
			}
		}
	}
	if debug.Decode() {
		debug.Logf("row %d: %v\n", row, doc)
	}
	d.stack = d.stack[:1]
	d.prune()
	return nil
}

// enter returns the container scheme node i denotes inside parent, reusing
// a same-key container of an earlier row when parent is a map.
func (d *decoder) enter(parent *ir.Node, i int) (*ir.Node, error) {
	n := d.t.Node(i)
	c := newContainer(n.Kind)
	switch parent.Type {
	case ir.ObjectType:
		if n.Name == "" {
			return nil, d.t.Errorf(scheme.ErrSchemaViolation, i, "unnamed %s inside a map", n.Kind)
		}
		if ex := ir.Get(parent, n.Name); ex != nil {
			if ex.Type != c.Type {
				return nil, d.t.Errorf(scheme.ErrSchemaViolation, i, "%q already holds a %s", n.Name, ex.Type)
			}
			return ex, nil
		}
		parent.Set(n.Name, c)
	case ir.ArrayType:
		if n.Name == "" {
			parent.Append(c)
			break
		}
		wrap := ir.Object()
		parent.Append(wrap)
		d.created = append(d.created, wrap)
		wrap.Set(n.Name, c)
	default:
		return nil, d.t.Errorf(scheme.ErrSchemaViolation, i, "parent is a %s", parent.Type)
	}
	d.created = append(d.created, c)
	return c, nil
}

func (d *decoder) cell(row, col int) *ir.Node {
	v := d.r.Cell(row, col)
	if grid.IsEmpty(v) {
		if d.opts.includeEmpty {
			return ir.Null()
		}
		return nil
	}
	res := v.Clone()
	res.Parent = nil
	if d.opts.inferTypes {
		res.ReType()
	}
	return res
}

func (d *decoder) attach(parent *ir.Node, i int, key string, v *ir.Node) error {
	switch parent.Type {
	case ir.ObjectType:
		if key == "" {
			return d.t.Errorf(scheme.ErrSchemaViolation, i, "value without a key inside a map")
		}
		parent.Set(key, v)
	case ir.ArrayType:
		if key == "" {
			parent.Append(v)
			return nil
		}
		parent.Append(ir.FromKeyVals([]ir.KeyVal{{Key: key, Val: v}}))
	default:
		return d.t.Errorf(scheme.ErrSchemaViolation, i, "parent is a %s", parent.Type)
	}
	return nil
}

func (d *decoder) leaf(parent *ir.Node, i, row int) error {
	n := d.t.Node(i)
	if parent.Type == ir.ObjectType && n.Name == "" {
		return d.t.Errorf(scheme.ErrSchemaViolation, i, "value without a key inside a map")
	}
	v := d.cell(row, n.Col)
	if v == nil {
		return nil
	}
	return d.attach(parent, i, n.Name, v)
}

func (d *decoder) keyed(parent *ir.Node, i, row int) error {
	n := d.t.Node(i)
	vn := d.t.Node(n.Children[0])
	k := d.r.Cell(row, n.Col)
	if grid.IsEmpty(k) {
		if !grid.IsEmpty(d.r.Cell(row, vn.Col)) {
			d.warnings = append(d.warnings, scheme.Warning{
				Kind:    scheme.DroppedValue,
				Path:    d.t.Path(i),
				Message: fmt.Sprintf("value at R%dC%d has no key", row+1, vn.Col+1),
			})
		}
		return nil
	}
	v := d.cell(row, vn.Col)
	if v == nil {
		return nil
	}
	return d.attach(parent, i, k.Text(), v)
}

// prune removes containers opened by the current row that received
// nothing, innermost first.
func (d *decoder) prune() {
	for j := len(d.created) - 1; j >= 0; j-- {
		c := d.created[j]
		if c.Len() == 0 && c.Parent != nil {
			c.Parent.Remove(c)
		}
	}
	d.created = d.created[:0]
}

var discard = slog.New(slog.DiscardHandler)
