package layout

import (
	"errors"
	"fmt"
	"slices"

	"github.com/signadot/gridtree/analyze"
	"github.com/signadot/gridtree/debug"
	"github.com/signadot/gridtree/ir"
	"github.com/signadot/gridtree/scheme"
)

var ErrLayoutOverflow = errors.New("layout overflow")

// Slot is one marker cell of a planned scheme.
type Slot struct {
	Kind     scheme.Kind `json:"kind"`
	Name     string      `json:"name,omitempty"`
	Row      int         `json:"row"`
	Col      int         `json:"col"`
	Span     int         `json:"span"`
	Path     string      `json:"path,omitempty"`
	Children []*Slot     `json:"children,omitempty"`
}

// Walk calls f on s and its descendants in pre-order.
func (s *Slot) Walk(f func(*Slot)) {
	f(s)
	for _, c := range s.Children {
		c.Walk(f)
	}
}

// Plan is a complete grid layout for trees of one StructurePattern.
type Plan struct {
	Strategy Strategy `json:"strategy"`
	RootKind ir.Type  `json:"rootKind"`
	Root     *Slot    `json:"root"`
	Width    int      `json:"width"`
	// Depth is the number of marker rows; the $scheme_end row follows
	// them.
	Depth int `json:"depth"`
	// Columns maps a data path to its column.
	Columns  map[string]int  `json:"columns"`
	Arrays   map[string]bool `json:"arrays,omitempty"`
	Keyed    map[string]bool `json:"keyed,omitempty"`
	Vertical map[string]bool `json:"vertical,omitempty"`
	GroupKey string          `json:"groupKey,omitempty"`
}

// DataStart is the first data row of grids written with p.
func (p *Plan) DataStart() int {
	return p.Depth + 1
}

// Paths returns the column paths ordered by column.
func (p *Plan) Paths() []string {
	res := make([]string, 0, len(p.Columns))
	for k := range p.Columns {
		res = append(res, k)
	}
	slices.SortFunc(res, func(a, b string) int {
		return p.Columns[a] - p.Columns[b]
	})
	return res
}

// Scheme returns the scheme tree a grid written with p declares.
func (p *Plan) Scheme() *scheme.Tree {
	t := scheme.NewTree(p.Root.Kind, p.Root.Row, p.Root.Col, p.Root.Span)
	var add func(parent int, s *Slot)
	add = func(parent int, s *Slot) {
		for _, c := range s.Children {
			i := t.Add(parent, scheme.Node{Kind: c.Kind, Name: c.Name, Row: c.Row, Col: c.Col, Span: c.Span})
			add(i, c)
		}
	}
	add(0, p.Root)
	t.EndRow = p.Depth
	t.DataStart = p.DataStart()
	return t
}

// Auto selects a strategy for sp, consulting the rule option first, and
// builds the plan.
func Auto(sp *analyze.StructurePattern, opts ...BuildOption) (*Plan, error) {
	o := newBuildOpts(opts)
	m := ComputeMetrics(sp, o.th)
	s := Select(m)
	if o.rule != nil {
		rs, ok, err := o.rule.Select(m)
		if err != nil {
			return nil, err
		}
		if ok {
			s = rs
		}
	}
	o.logger.Debug("selected layout", "strategy", s.String(), "depth", m.Depth)
	return build(sp, s, o)
}

// Build plans the layout of sp with strategy s.
func Build(sp *analyze.StructurePattern, s Strategy, opts ...BuildOption) (*Plan, error) {
	return build(sp, s, newBuildOpts(opts))
}

func build(sp *analyze.StructurePattern, s Strategy, o *buildOpts) (*Plan, error) {
	if !sp.Representable() {
		return nil, &scheme.Error{
			Err:     scheme.ErrSchemaViolation,
			Kind:    scheme.Property,
			Path:    "$",
			Message: fmt.Sprintf("%s root has no grid layout", sp.RootKind),
		}
	}
	p := &Plan{
		Strategy: s,
		RootKind: sp.RootKind,
		Columns:  map[string]int{},
		Arrays:   map[string]bool{},
		Keyed:    map[string]bool{},
		Vertical: map[string]bool{},
	}
	b := &planner{p: p, th: o.th, vertical: s == Vertical}
	if sp.RootKind == ir.ArrayType {
		p.Root = &Slot{Kind: scheme.Array, Path: RowPath("")}
		if b.vertical {
			p.GroupKey = groupKey(sp.Fields, o.th)
		}
		b.shape(p.Root, sp.Root.Unified, RowPath(""), 1, 0, false)
	} else {
		p.Root = &Slot{Kind: scheme.Map}
		b.fields(p.Root, sp.Fields, "", 1, 0, b.vertical)
	}
	if b.err != nil {
		return nil, b.err
	}
	p.Width = max(1, slotSpan(p.Root))
	p.Root.Span = p.Width
	p.Root.Walk(func(s *Slot) {
		p.Depth = max(p.Depth, s.Row+1)
	})
	if p.Width > o.th.MaxColumns {
		return nil, overflow(p, o.th.MaxColumns)
	}
	if debug.Layout() {
		debug.Logf("layout %s: width %d depth %d\n", s, p.Width, p.Depth)
		for _, path := range p.Paths() {
			debug.Logf("  %4d %s\n", p.Columns[path], path)
		}
	}
	return p, nil
}

func overflow(p *Plan, limit int) error {
	widest := p.Root
	for _, c := range p.Root.Children {
		if widest == p.Root || c.Span > widest.Span {
			widest = c
		}
	}
	path := widest.Path
	if path == "" {
		path = "$"
	}
	return fmt.Errorf("%w: %d columns exceed the limit of %d, widest %s at %s spans %d",
		ErrLayoutOverflow, p.Width, limit, widest.Kind, path, widest.Span)
}

func slotSpan(s *Slot) int {
	w := 0
	for _, c := range s.Children {
		w += c.Span
	}
	return w
}

// groupKey picks the required scalar field with the lowest distinct to
// total ratio, provided it is at most th.GroupKeyRatio.
func groupKey(f *analyze.Fields, th Thresholds) string {
	best, bestRatio := "", th.GroupKeyRatio
	for _, p := range f.List() {
		if !p.IsScalar() || !p.IsRequired || p.OccurrenceCount < 2 || p.DistinctCount == 0 {
			continue
		}
		r := float64(p.DistinctCount) / float64(p.OccurrenceCount)
		if r <= bestRatio && (best == "" || r < bestRatio) {
			best, bestRatio = p.Name, r
		}
	}
	return best
}

type planner struct {
	p        *Plan
	th       Thresholds
	vertical bool
	err      error
}

// ordered puts scalars and objects before arrays, each group in
// first-appearance order, with the group key first.
func (b *planner) ordered(f *analyze.Fields, top bool) []*analyze.PropertyPattern {
	list := f.List()
	rank := func(p *analyze.PropertyPattern) int {
		switch {
		case top && p.Name == b.p.GroupKey && b.p.GroupKey != "":
			return 0
		case p.IsArray:
			return 2
		}
		return 1
	}
	slices.SortStableFunc(list, func(x, y *analyze.PropertyPattern) int {
		return rank(x) - rank(y)
	})
	return list
}

// fields lays out f below parent starting at (row, col) and returns the
// width used.  expand marks arrays reached only through maps, which
// expand downward under the vertical strategy.
func (b *planner) fields(parent *Slot, f *analyze.Fields, prefix string, row, col int, expand bool) int {
	start := col
	top := prefix == RowPath("")
	for _, pp := range b.ordered(f, top) {
		path := FieldPath(prefix, pp.Name)
		kind := scheme.Property
		switch {
		case pp.IsArray:
			kind = scheme.Array
		case pp.Keyed, pp.IsObject:
			kind = scheme.Map
		}
		if !b.named(kind, pp.Name, path, row, col) {
			continue
		}
		switch {
		case pp.IsArray:
			s := &Slot{Kind: scheme.Array, Name: pp.Name, Row: row, Col: col, Path: path}
			if w := b.array(s, pp.Array, path, row+1, col, expand); w > 0 {
				s.Span = w
				parent.Children = append(parent.Children, s)
				col += w
			}
		case pp.Keyed:
			s := &Slot{Kind: scheme.Map, Name: pp.Name, Row: row, Col: col, Path: path}
			for j := 0; j < pp.MaxKeys; j++ {
				kp, vp := KeyPath(path, j), ValuePath(path, j)
				k := &Slot{Kind: scheme.Key, Row: row + 1, Col: col + 2*j, Span: 1, Path: kp}
				k.Children = []*Slot{{Kind: scheme.Value, Row: row + 1, Col: col + 2*j + 1, Span: 1, Path: vp}}
				s.Children = append(s.Children, k)
				b.claim(kp, col+2*j)
				b.claim(vp, col+2*j+1)
			}
			if pp.MaxKeys > 0 {
				s.Span = 2 * pp.MaxKeys
				b.p.Keyed[path] = true
				parent.Children = append(parent.Children, s)
				col += s.Span
			}
		case pp.IsObject:
			s := &Slot{Kind: scheme.Map, Name: pp.Name, Row: row, Col: col, Path: path}
			if w := b.fields(s, pp.Object, path, row+1, col, expand); w > 0 {
				s.Span = w
				parent.Children = append(parent.Children, s)
				col += w
			}
		default:
			parent.Children = append(parent.Children, &Slot{Kind: scheme.Property, Name: pp.Name, Row: row, Col: col, Span: 1, Path: path})
			b.claim(path, col)
			col++
		}
	}
	return col - start
}

// array lays out the elements of ap below s, one element slot when
// expanding downward, otherwise one per position.
func (b *planner) array(s *Slot, ap *analyze.ArrayPattern, path string, row, col int, expand bool) int {
	if expand && b.vertical {
		b.p.Vertical[path] = true
		return b.shape(s, ap.Unified, RowPath(path), row, col, false)
	}
	b.p.Arrays[path] = true
	start := col
	if ap.Mode == analyze.PerIndex {
		for i, es := range ap.PerIndex {
			col += b.shape(s, es, IndexPath(path, i), row, col, false)
		}
		return col - start
	}
	for i := 0; i < ap.MaxSize; i++ {
		col += b.shape(s, ap.Unified, IndexPath(path, i), row, col, false)
	}
	return col - start
}

// shape lays out one element slot of an array: a map for object
// elements, a value for scalars and an array for nested arrays.
func (b *planner) shape(parent *Slot, es *analyze.ElementShape, path string, row, col int, expand bool) int {
	start := col
	if es.Objects > 0 {
		s := &Slot{Kind: scheme.Map, Row: row, Col: col, Path: path}
		if w := b.fields(s, es.Fields, path, row+1, col, expand); w > 0 {
			s.Span = w
			parent.Children = append(parent.Children, s)
			col += w
		}
	}
	if es.Scalars > 0 {
		parent.Children = append(parent.Children, &Slot{Kind: scheme.Value, Row: row, Col: col, Span: 1, Path: path})
		b.claim(path, col)
		col++
	}
	if es.Arrays > 0 && es.Nested != nil {
		s := &Slot{Kind: scheme.Array, Row: row, Col: col, Path: path}
		if w := b.array(s, es.Nested, path, row+1, col, false); w > 0 {
			s.Span = w
			parent.Children = append(parent.Children, s)
			col += w
		}
	}
	return col - start
}

// named reports whether the marker cell of a kind node named name reads
// back as the same node, recording a schema violation when it does not.
func (b *planner) named(k scheme.Kind, name, path string, row, col int) bool {
	if name != "" {
		m := scheme.Marker(k, name)
		pk, pn := scheme.ParseMarker(m)
		if pk == k && pn == name && !scheme.IsSchemeEnd(m) {
			return true
		}
	}
	if b.err == nil {
		b.err = &scheme.Error{
			Err:     scheme.ErrSchemaViolation,
			Kind:    k,
			Row:     row,
			Col:     col,
			Path:    path,
			Message: fmt.Sprintf("field name %q cannot be written as a scheme cell", name),
		}
	}
	return false
}

func (b *planner) claim(path string, col int) {
	if prev, ok := b.p.Columns[path]; ok && b.err == nil {
		b.err = fmt.Errorf("%w: path %s claimed by columns %d and %d", scheme.ErrDuplicateName, path, prev, col)
		return
	}
	b.p.Columns[path] = col
}
