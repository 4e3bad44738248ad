package analyze

import (
	"cmp"
	"slices"

	"github.com/signadot/gridtree/ir"
	"github.com/signadot/gridtree/scheme"
)

// PropertyPattern is the inferred shape of one named field across every
// object instance it was seen in.
type PropertyPattern struct {
	Name            string  `json:"name"`
	OccurrenceCount int     `json:"occurrenceCount"`
	OccurrenceRatio float64 `json:"occurrenceRatio"`
	// FirstAppearanceIndex is the field's position inside the element where
	// it was first seen, FirstElementIndex the index of that element.
	FirstAppearanceIndex int  `json:"firstAppearanceIndex"`
	FirstElementIndex    int  `json:"firstElementIndex"`
	IsRequired           bool `json:"isRequired"`

	IsArray   bool `json:"isArray"`
	IsObject  bool `json:"isObject"`
	HasScalar bool `json:"hasScalar"`

	ObjectProperties []string      `json:"objectProperties,omitempty"`
	Object           *Fields       `json:"object,omitempty"`
	Array            *ArrayPattern `json:"array,omitempty"`

	Types         []ir.Type `json:"types,omitempty"`
	DistinctCount int       `json:"distinctCount"`
	MaxKeys       int       `json:"maxKeys,omitempty"`
	// Keyed marks an object field used as a dictionary: many scalar keys,
	// each rare.  It is laid out as dynamic $key/$value pairs.
	Keyed bool `json:"keyed,omitempty"`

	seq      int
	distinct map[uint64]struct{}
	plain    []*ir.Node
}

// IsScalar reports whether the field only ever held scalars.
func (p *PropertyPattern) IsScalar() bool {
	return !p.IsArray && !p.IsObject
}

// Fields is an ordered set of property patterns unified over Instances
// objects.
type Fields struct {
	ByName    map[string]*PropertyPattern `json:"-"`
	Order     []string                    `json:"order"`
	Instances int                         `json:"instances"`
}

func newFields() *Fields {
	return &Fields{ByName: map[string]*PropertyPattern{}}
}

func (f *Fields) Get(name string) *PropertyPattern {
	if f == nil {
		return nil
	}
	return f.ByName[name]
}

func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Order)
}

// List returns the patterns in first-appearance order: by the element they
// were first seen in, then by their position in it, then by insertion.
func (f *Fields) List() []*PropertyPattern {
	if f == nil {
		return nil
	}
	res := make([]*PropertyPattern, 0, len(f.Order))
	for _, name := range f.Order {
		res = append(res, f.ByName[name])
	}
	slices.SortStableFunc(res, func(a, b *PropertyPattern) int {
		if c := cmp.Compare(a.FirstElementIndex, b.FirstElementIndex); c != 0 {
			return c
		}
		if c := cmp.Compare(a.FirstAppearanceIndex, b.FirstAppearanceIndex); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})
	return res
}

func (f *Fields) add(name string, pos, elem int) *PropertyPattern {
	p := &PropertyPattern{
		Name:                 name,
		FirstAppearanceIndex: pos,
		FirstElementIndex:    elem,
		seq:                  len(f.Order),
	}
	f.ByName[name] = p
	f.Order = append(f.Order, name)
	return p
}

// Mode selects how an array's elements share columns.
type Mode int

const (
	// Unified gives every element the width of the union of all elements.
	Unified Mode = iota
	// PerIndex sizes each array position independently.
	PerIndex
)

func (m Mode) String() string {
	if m == PerIndex {
		return "per-index"
	}
	return "unified"
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ElementShape unifies a set of array elements, which may mix objects,
// arrays and scalars.
type ElementShape struct {
	Fields  *Fields       `json:"fields,omitempty"`
	Nested  *ArrayPattern `json:"nested,omitempty"`
	Scalars int           `json:"scalars"`
	Objects int           `json:"objects"`
	Arrays  int           `json:"arrays"`
	Types   []ir.Type     `json:"types,omitempty"`
}

func newElementShape() *ElementShape {
	return &ElementShape{Fields: newFields()}
}

// Kinds returns how many of object, array and scalar elements occur.
func (e *ElementShape) Kinds() int {
	n := 0
	for _, c := range []int{e.Objects, e.Arrays, e.Scalars} {
		if c > 0 {
			n++
		}
	}
	return n
}

// ArrayPattern is the unified shape of every instance of an array found at
// one path.
type ArrayPattern struct {
	// ElementProperties is Unified.Fields.
	ElementProperties *Fields         `json:"-"`
	Unified           *ElementShape   `json:"unified"`
	PerIndex          []*ElementShape `json:"perIndex,omitempty"`

	MaxSize       int `json:"maxSize"`
	MinSize       int `json:"minSize"`
	Instances     int `json:"instances"`
	TotalElements int `json:"totalElements"`

	HasVariableStructure bool `json:"hasVariableStructure"`
	RequiresMultipleRows bool `json:"requiresMultipleRows"`
	Mode                 Mode `json:"mode"`

	trackIndex bool
	keySets    [][]map[string]struct{}
}

func newArrayPattern(trackIndex bool) *ArrayPattern {
	u := newElementShape()
	return &ArrayPattern{
		ElementProperties: u.Fields,
		Unified:           u,
		trackIndex:        trackIndex,
	}
}

// StructurePattern is the result of analyzing one tree.
type StructurePattern struct {
	RootKind ir.Type `json:"rootKind"`
	// Root is set for sequence roots.
	Root *ArrayPattern `json:"root,omitempty"`
	// Fields are the mapping root's fields or the unified fields of a
	// sequence root's elements.
	Fields *Fields `json:"fields"`
	// Arrays are the array valued members of Fields.
	Arrays   []*PropertyPattern `json:"arrays,omitempty"`
	Warnings []scheme.Warning   `json:"warnings,omitempty"`
}

// Representable reports whether the root can be laid out on a grid.
func (s *StructurePattern) Representable() bool {
	return s.RootKind == ir.ObjectType || s.RootKind == ir.ArrayType
}
