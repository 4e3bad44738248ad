package scheme

import (
	"strconv"
	"strings"
)

// Node is one cell region of the scheme area.  Parent and Children are
// indices into the owning Tree's arena; Parent is -1 for the root.
type Node struct {
	Kind     Kind   `json:"kind"`
	Name     string `json:"name,omitempty"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Span     int    `json:"span"`
	Depth    int    `json:"depth"`
	Parent   int    `json:"-"`
	Children []int  `json:"children,omitempty"`
}

// Tree is an arena of scheme nodes.  Nodes[0] is the root.
type Tree struct {
	Nodes []Node

	// EndRow is the row holding the $scheme_end marker and DataStart the
	// first data row.
	EndRow    int
	DataStart int

	Warnings []Warning
}

// NewTree returns a tree holding only a root of kind k at (row, col).
func NewTree(k Kind, row, col, span int) *Tree {
	return &Tree{
		Nodes: []Node{{
			Kind:   k,
			Row:    row,
			Col:    col,
			Span:   max(span, 1),
			Parent: -1,
		}},
	}
}

func (t *Tree) Root() *Node {
	return &t.Nodes[0]
}

func (t *Tree) Node(i int) *Node {
	return &t.Nodes[i]
}

// Add appends n as the last child of parent and returns its index.  The
// depth is derived from the parent: a Key's Value shares the Key's row
// depth, every other child is one level deeper.
func (t *Tree) Add(parent int, n Node) int {
	p := &t.Nodes[parent]
	n.Parent = parent
	n.Children = nil
	if p.Kind == Key {
		n.Depth = p.Depth
	} else {
		n.Depth = p.Depth + 1
	}
	if n.Span < 1 {
		n.Span = 1
	}
	i := len(t.Nodes)
	t.Nodes = append(t.Nodes, n)
	t.Nodes[parent].Children = append(t.Nodes[parent].Children, i)
	return i
}

// Linearize returns node indices in depth-first pre-order, root first.
func (t *Tree) Linearize() []int {
	res := make([]int, 0, len(t.Nodes))
	stack := []int{0}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		res = append(res, i)
		kids := t.Nodes[i].Children
		for j := len(kids) - 1; j >= 0; j-- {
			stack = append(stack, kids[j])
		}
	}
	return res
}

// Path describes the position of node i as a tree path, with "[]" for
// anonymous array elements and "{}" for dynamic keys.
func (t *Tree) Path(i int) string {
	var parts []string
	for j := i; j > 0; j = t.Nodes[j].Parent {
		n := &t.Nodes[j]
		p := &t.Nodes[n.Parent]
		switch {
		case n.Kind == Value && p.Kind == Key:
			continue
		case n.Kind == Key:
			parts = append(parts, ".{}")
		case n.Name != "":
			if p.Kind == Array {
				parts = append(parts, "[]."+n.Name)
			} else {
				parts = append(parts, "."+n.Name)
			}
		case p.Kind == Array:
			parts = append(parts, "[]")
		default:
			parts = append(parts, ".#"+strconv.Itoa(n.Col))
		}
	}
	buf := &strings.Builder{}
	buf.WriteByte('$')
	for k := len(parts) - 1; k >= 0; k-- {
		buf.WriteString(parts[k])
	}
	return buf.String()
}

// Width returns the number of columns covered by the root.
func (t *Tree) Width() int {
	return t.Nodes[0].Span
}

// DataColumns returns the columns read by data holding nodes, in
// linearized order.
func (t *Tree) DataColumns() []int {
	var res []int
	for _, i := range t.Linearize() {
		if t.Nodes[i].Kind.HoldsData() {
			res = append(res, t.Nodes[i].Col)
		}
	}
	return res
}

// Validate checks the structural invariants of the tree, returning the
// first violation as an *Error.  Non fatal findings are appended to
// t.Warnings.
func (t *Tree) Validate() error {
	if len(t.Nodes) == 0 {
		return &Error{Err: ErrSchemaViolation, Message: "empty scheme"}
	}
	root := t.Root()
	if !root.Kind.IsContainer() {
		return t.Errorf(ErrSchemaViolation, 0, "root must be %s or %s", Map, Array)
	}
	for i := range t.Nodes {
		n := &t.Nodes[i]
		if n.Kind.IsLeaf() && len(n.Children) > 0 {
			return t.Errorf(ErrSchemaViolation, i, "leaf has %d children", len(n.Children))
		}
		if n.Kind == Key {
			if len(n.Children) != 1 || t.Nodes[n.Children[0]].Kind != Value {
				return t.Errorf(ErrSchemaViolation, i, "%s must pair with exactly one %s", MarkKey, MarkValue)
			}
		}
		if err := t.validateChildren(i); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) validateChildren(i int) error {
	n := &t.Nodes[i]
	if !n.Kind.IsContainer() {
		return nil
	}
	seen := map[string]int{}
	for _, ci := range n.Children {
		c := &t.Nodes[ci]
		switch {
		case c.Kind == Ignore, c.Kind == Key:
			continue
		case n.Kind == Map && c.Name == "":
			return t.Errorf(ErrSchemaViolation, ci, "unnamed child of %s", Map)
		case n.Kind == Array && c.Kind == Array && c.Name == "":
			t.warn(Warning{
				Kind:    ArrayInArray,
				Path:    t.Path(ci),
				Message: "unnamed array directly inside an array is discouraged",
			})
		}
		if c.Name == "" || n.Kind != Map {
			continue
		}
		if prev, ok := seen[c.Name]; ok {
			pn := &t.Nodes[prev]
			return t.Errorf(ErrDuplicateName, ci, "%q already declared at R%dC%d", c.Name, pn.Row+1, pn.Col+1)
		}
		seen[c.Name] = ci
	}
	return nil
}

// warn records w unless an identical warning is already present, so that
// validating twice does not double report.
func (t *Tree) warn(w Warning) {
	for _, x := range t.Warnings {
		if x == w {
			return
		}
	}
	t.Warnings = append(t.Warnings, w)
}
