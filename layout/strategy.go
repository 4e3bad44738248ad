// Package layout selects a layout strategy for an analyzed tree and plans
// the scheme columns a grid needs to hold it.
//
// Under the vertical strategy, arrays reached through the fields of a
// mapping root expand downward, one row per element.  A sequence root
// keeps one row per element under every strategy, since blank rows are
// what separate its elements' documents on decode; vertical then only
// moves the group key column first, and the materializer reports runs of
// equal group keys as row groups.
package layout

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/signadot/gridtree/analyze"
	"github.com/signadot/gridtree/ir"
)

type Strategy int

const (
	Simple Strategy = iota
	Horizontal
	Vertical
	Mixed
)

func (s Strategy) String() string {
	switch s {
	case Simple:
		return "simple"
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case Mixed:
		return "mixed"
	}
	return fmt.Sprintf("<strategy %d>", int(s))
}

func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Strategy) UnmarshalText(d []byte) error {
	v, err := ParseStrategy(string(d))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func Strategies() []Strategy {
	return []Strategy{Simple, Horizontal, Vertical, Mixed}
}

func ParseStrategy(v string) (Strategy, error) {
	for _, s := range Strategies() {
		if strings.EqualFold(v, s.String()) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown strategy %q", v)
}

// Metrics summarize a StructurePattern for strategy selection.
type Metrics struct {
	Depth                int     `json:"depth"`
	IsSimpleStructure    bool    `json:"isSimpleStructure"`
	HasArrays            bool    `json:"hasArrays"`
	RootIsSequence       bool    `json:"rootIsSequence"`
	RootHasArrayFields   bool    `json:"rootHasArrayFields"`
	HasLargeNestedArrays bool    `json:"hasLargeNestedArrays"`
	TotalNestedElements  int     `json:"totalNestedElements"`
	HasVariableDepth     bool    `json:"hasVariableDepth"`
	HasOptionalNesting   bool    `json:"hasOptionalNesting"`
	AverageArraySize     float64 `json:"averageArraySize"`
	RequiresMultipleRows bool    `json:"requiresMultipleRows"`
	LargeTotalElements   int     `json:"largeTotalElements"`
}

// ComputeMetrics derives the selection metrics of sp.
func ComputeMetrics(sp *analyze.StructurePattern, th Thresholds) Metrics {
	m := Metrics{
		RootIsSequence:     sp.RootKind == ir.ArrayType,
		LargeTotalElements: th.LargeTotalElements,
	}
	w := &metricWalk{m: &m, th: th}
	switch sp.RootKind {
	case ir.ArrayType:
		m.Depth = arrayDepth(sp.Root)
		w.shape(sp.Root.Unified)
	case ir.ObjectType:
		m.Depth = fieldsDepth(sp.Fields)
		w.fields(sp.Fields)
	}
	m.RootHasArrayFields = m.RootIsSequence && len(sp.Arrays) > 0
	m.IsSimpleStructure = m.Depth <= 2 && !m.HasArrays
	if w.instances > 0 {
		m.AverageArraySize = float64(m.TotalNestedElements) / float64(w.instances)
	}
	return m
}

type metricWalk struct {
	m         *Metrics
	th        Thresholds
	instances int
}

func (w *metricWalk) fields(f *analyze.Fields) {
	for _, p := range f.List() {
		if p.OccurrenceRatio < 1 {
			w.m.HasOptionalNesting = true
			if !p.IsScalar() {
				w.m.HasVariableDepth = true
			}
		}
		switch {
		case p.IsArray:
			w.array(p.Array)
		case p.IsObject:
			w.fields(p.Object)
		}
	}
}

func (w *metricWalk) array(ap *analyze.ArrayPattern) {
	w.m.HasArrays = true
	w.m.TotalNestedElements += ap.TotalElements
	w.instances += ap.Instances
	if ap.Unified.Width() > w.th.LargeArrayWidth {
		w.m.HasLargeNestedArrays = true
	}
	if ap.RequiresMultipleRows {
		w.m.RequiresMultipleRows = true
	}
	if ap.HasVariableStructure {
		w.m.HasVariableDepth = true
	}
	w.shape(ap.Unified)
}

func (w *metricWalk) shape(s *analyze.ElementShape) {
	if s.Objects > 0 {
		w.fields(s.Fields)
	}
	if s.Arrays > 0 && s.Nested != nil {
		w.array(s.Nested)
	}
}

func fieldsDepth(f *analyze.Fields) int {
	d := 0
	for _, p := range f.List() {
		switch {
		case p.IsArray:
			d = max(d, arrayDepth(p.Array))
		case p.IsObject:
			d = max(d, fieldsDepth(p.Object))
		}
	}
	return d + 1
}

func arrayDepth(ap *analyze.ArrayPattern) int {
	d := 0
	s := ap.Unified
	if s.Objects > 0 {
		d = fieldsDepth(s.Fields)
	}
	if s.Arrays > 0 && s.Nested != nil {
		d = max(d, arrayDepth(s.Nested))
	}
	return d + 1
}

// Select applies the built-in decision order to m.
func Select(m Metrics) Strategy {
	switch {
	case m.IsSimpleStructure:
		return Simple
	case m.RootIsSequence && m.RootHasArrayFields:
		return Horizontal
	case m.HasLargeNestedArrays && m.TotalNestedElements > m.LargeTotalElements:
		return Horizontal
	case m.HasVariableDepth || m.HasOptionalNesting || m.RequiresMultipleRows:
		return Vertical
	}
	return Mixed
}

// Rule is a compiled expression over Metrics yielding a strategy name, or
// "" to defer to Select.  For example:
//
//	Depth > 4 ? "vertical" : ""
type Rule struct {
	src  string
	prog *vm.Program
}

func CompileRule(src string) (*Rule, error) {
	prog, err := expr.Compile(src, expr.Env(Metrics{}), expr.AsKind(reflect.String))
	if err != nil {
		return nil, fmt.Errorf("compiling rule %q: %w", src, err)
	}
	return &Rule{src: src, prog: prog}, nil
}

func (r *Rule) String() string {
	return r.src
}

// Select evaluates r on m.  ok is false when r defers.
func (r *Rule) Select(m Metrics) (s Strategy, ok bool, err error) {
	out, err := expr.Run(r.prog, m)
	if err != nil {
		return 0, false, fmt.Errorf("running rule %q: %w", r.src, err)
	}
	name, _ := out.(string)
	if name == "" {
		return 0, false, nil
	}
	s, err = ParseStrategy(name)
	if err != nil {
		return 0, false, fmt.Errorf("rule %q: %w", r.src, err)
	}
	return s, true, nil
}
