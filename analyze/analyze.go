// Package analyze infers the structure of a document tree: for every
// field path, which shapes occur, how often, and how arrays found at the
// same path unify.
//
// All instances of an array at one path merge into a single
// ArrayPattern, so that optional sub-fields contributed by any element of
// any instance are represented.
package analyze

import (
	"fmt"
	"log/slog"

	"github.com/signadot/gridtree/debug"
	"github.com/signadot/gridtree/ir"
	"github.com/signadot/gridtree/scheme"
)

// Analyze infers the StructurePattern of root.  Scalar roots are analyzed
// but are not representable.
func Analyze(root *ir.Node, opts ...AnalyzeOption) (*StructurePattern, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: nil tree", scheme.ErrSchemaViolation)
	}
	o := &analyzeOpts{th: DefaultThresholds(), logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(o)
	}
	a := &analyzer{analyzeOpts: o}
	res := &StructurePattern{RootKind: root.Type}
	switch root.Type {
	case ir.ArrayType:
		res.Root = newArrayPattern(false)
		a.mergeArray(res.Root, root, "$")
		a.finishArray(res.Root)
		res.Fields = res.Root.ElementProperties
	case ir.ObjectType:
		res.Fields = newFields()
		a.mergeObject(res.Fields, root, "$")
		a.finishFields(res.Fields)
	default:
		res.Fields = newFields()
	}
	for _, p := range res.Fields.List() {
		if p.IsArray {
			res.Arrays = append(res.Arrays, p)
		}
	}
	res.Warnings = a.warnings
	for _, w := range res.Warnings {
		o.logger.Warn(w.Message, "kind", w.Kind.String(), "path", w.Path)
	}
	if debug.Analyze() {
		debug.LogAny(res)
		debug.Logf("\n")
	}
	return res, nil
}

type analyzer struct {
	*analyzeOpts
	warnings []scheme.Warning
	// quiet suppresses warnings while merging the same values a second
	// time into per-index shapes.
	quiet int
}

func (a *analyzer) warn(path, format string, args ...any) {
	if a.quiet > 0 {
		return
	}
	a.warnings = append(a.warnings, scheme.Warning{
		Kind:    scheme.MergeConflict,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	})
}

// mergeObject merges the fields of obj into f.  The element index recorded
// for new fields is the running count of objects merged into f.
func (a *analyzer) mergeObject(f *Fields, obj *ir.Node, path string) {
	elem := f.Instances
	f.Instances++
	for pos, k := range obj.Fields {
		name := k.String
		p := f.ByName[name]
		if p == nil {
			p = f.add(name, pos, elem)
		}
		p.OccurrenceCount++
		a.mergeValue(p, obj.Values[pos], path+"."+name)
	}
}

func (a *analyzer) mergeValue(p *PropertyPattern, v *ir.Node, path string) {
	if v.Type != ir.ArrayType && p.IsArray {
		a.warn(path, "%s value merged into array field as a one element array", v.Type)
		a.mergeArray(p.Array, wrap(v), path)
		return
	}
	switch v.Type {
	case ir.ArrayType:
		if !p.IsArray {
			a.toArray(p, path)
		}
		a.mergeArray(p.Array, v, path)
	case ir.ObjectType:
		if p.HasScalar && !p.IsObject {
			a.warn(path, "object shape supersedes scalar values")
		}
		p.IsObject = true
		if p.Object == nil {
			p.Object = newFields()
		}
		a.mergeObject(p.Object, v, path)
		p.MaxKeys = max(p.MaxKeys, v.Len())
		p.plain = append(p.plain, v)
	default:
		if p.IsObject {
			a.warn(path, "%s value dropped in favor of object shape", v.Type)
		}
		p.HasScalar = true
		p.addScalar(v)
		p.plain = append(p.plain, v)
	}
}

// toArray turns p into an array field, replaying the non-array values seen
// so far as one element arrays.
func (a *analyzer) toArray(p *PropertyPattern, path string) {
	plain := p.plain
	p.IsArray = true
	p.Array = newArrayPattern(true)
	p.IsObject, p.HasScalar = false, false
	p.Object, p.MaxKeys = nil, 0
	p.Types, p.distinct, p.plain = nil, nil, nil
	if len(plain) > 0 {
		a.warn(path, "array shape supersedes %d earlier non-array values", len(plain))
	}
	for _, v := range plain {
		a.mergeArray(p.Array, wrap(v), path)
	}
}

func (p *PropertyPattern) addScalar(v *ir.Node) {
	p.Types = addType(p.Types, v.Type)
	if p.distinct == nil {
		p.distinct = map[uint64]struct{}{}
	}
	p.distinct[v.Hash()] = struct{}{}
}

func addType(ts []ir.Type, t ir.Type) []ir.Type {
	for _, x := range ts {
		if x == t {
			return ts
		}
	}
	return append(ts, t)
}

func wrap(v *ir.Node) *ir.Node {
	return ir.FromSlice([]*ir.Node{v.Clone()})
}

func (a *analyzer) mergeArray(ap *ArrayPattern, arr *ir.Node, path string) {
	n := arr.Len()
	if ap.Instances == 0 {
		ap.MinSize = n
	}
	ap.Instances++
	ap.MinSize = min(ap.MinSize, n)
	ap.MaxSize = max(ap.MaxSize, n)
	ap.TotalElements += n
	sets := make([]map[string]struct{}, n)
	for i, e := range arr.Values {
		a.mergeElement(ap.Unified, e, path+"[]")
		if e.Type == ir.ObjectType {
			sets[i] = keySet(e)
		}
		if !ap.trackIndex {
			continue
		}
		for len(ap.PerIndex) <= i {
			ap.PerIndex = append(ap.PerIndex, newElementShape())
		}
		a.quiet++
		a.mergeElement(ap.PerIndex[i], e, path+"[]")
		a.quiet--
	}
	ap.keySets = append(ap.keySets, sets)
}

func (a *analyzer) mergeElement(s *ElementShape, e *ir.Node, path string) {
	switch e.Type {
	case ir.ObjectType:
		s.Objects++
		a.mergeObject(s.Fields, e, path)
	case ir.ArrayType:
		s.Arrays++
		if s.Nested == nil {
			s.Nested = newArrayPattern(true)
		}
		a.mergeArray(s.Nested, e, path)
	default:
		s.Scalars++
		s.Types = addType(s.Types, e.Type)
	}
}

func keySet(obj *ir.Node) map[string]struct{} {
	res := make(map[string]struct{}, len(obj.Fields))
	for _, k := range obj.Fields {
		res[k.String] = struct{}{}
	}
	return res
}

func (a *analyzer) finishFields(f *Fields) {
	for _, name := range f.Order {
		p := f.ByName[name]
		p.OccurrenceRatio = float64(p.OccurrenceCount) / float64(max(f.Instances, 1))
		p.IsRequired = p.OccurrenceRatio > a.th.RequiredRatio
		p.DistinctCount = len(p.distinct)
		p.plain = nil
		if p.Object != nil {
			a.finishFields(p.Object)
			p.ObjectProperties = append([]string(nil), p.Object.Order...)
			p.Keyed = a.isKeyed(p)
		}
		if p.Array != nil {
			a.finishArray(p.Array)
		}
	}
}

// isKeyed detects dictionary-like objects: at least KeyedMinKeys scalar
// valued keys whose average occurrence ratio is at most KeyedMaxRatio.
func (a *analyzer) isKeyed(p *PropertyPattern) bool {
	f := p.Object
	if f.Instances < 2 || f.Len() < a.th.KeyedMinKeys {
		return false
	}
	sum := 0.0
	for _, name := range f.Order {
		c := f.ByName[name]
		if !c.IsScalar() {
			return false
		}
		sum += c.OccurrenceRatio
	}
	return sum/float64(f.Len()) <= a.th.KeyedMaxRatio
}

func (a *analyzer) finishShape(s *ElementShape) {
	a.finishFields(s.Fields)
	if s.Nested != nil {
		a.finishArray(s.Nested)
	}
}

func (a *analyzer) finishArray(ap *ArrayPattern) {
	a.finishShape(ap.Unified)
	for _, s := range ap.PerIndex {
		a.finishShape(s)
	}
	u := ap.Unified
	ap.HasVariableStructure = u.Kinds() > 1
	for _, p := range u.Fields.List() {
		if p.OccurrenceRatio < 1 {
			ap.HasVariableStructure = true
		}
	}
	ap.Mode = a.mode(ap)
	w := ap.Width()
	ap.RequiresMultipleRows = ap.MaxSize > a.th.MultiRowSize ||
		(ap.HasVariableStructure && w > a.th.MultiRowWidth)
	ap.keySets = nil
}

// mode picks PerIndex when object elements at one position are more alike
// across instances than elements within one instance are to each other.
func (a *analyzer) mode(ap *ArrayPattern) Mode {
	if !ap.trackIndex || ap.Instances < 2 || ap.Unified.Kinds() != 1 || ap.Unified.Objects == 0 {
		return Unified
	}
	var within, across float64
	var nw, na int
	for _, sets := range ap.keySets {
		for i := 1; i < len(sets); i++ {
			within += jaccard(sets[i-1], sets[i])
			nw++
		}
	}
	for j := 1; j < len(ap.keySets); j++ {
		prev, cur := ap.keySets[j-1], ap.keySets[j]
		for i := 0; i < min(len(prev), len(cur)); i++ {
			across += jaccard(prev[i], cur[i])
			na++
		}
	}
	if nw == 0 || na == 0 {
		return Unified
	}
	if across/float64(na)-within/float64(nw) > a.th.PerIndexGain {
		return PerIndex
	}
	return Unified
}

func jaccard(x, y map[string]struct{}) float64 {
	if len(x) == 0 && len(y) == 0 {
		return 1
	}
	inter := 0
	for k := range x {
		if _, ok := y[k]; ok {
			inter++
		}
	}
	return float64(inter) / float64(len(x)+len(y)-inter)
}
