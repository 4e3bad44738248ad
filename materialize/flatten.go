package materialize

import (
	"github.com/signadot/gridtree/ir"
	"github.com/signadot/gridtree/layout"
)

type cell struct {
	path string
	row  int
	v    *ir.Node
}

// flattener maps one element (or the mapping root) to data paths.  Row is
// the offset contributed by arrays expanded downward.
type flattener struct {
	m     *materializer
	cells []cell
}

func (f *flattener) value(v *ir.Node, path string, row int) {
	p := f.m.p
	switch v.Type {
	case ir.ArrayType:
		if !f.m.arrays[path] {
			f.m.warn(path, "array value has no array slot")
			return
		}
		for i, e := range v.Values {
			if p.Vertical[path] {
				f.value(e, layout.RowPath(path), row+i)
				continue
			}
			f.value(e, layout.IndexPath(path, i), row)
		}
	case ir.ObjectType:
		switch {
		case p.Keyed[path]:
			for j, k := range v.Fields {
				f.cells = append(f.cells, cell{path: layout.KeyPath(path, j), row: row, v: ir.FromString(k.String)})
				f.value(v.Values[j], layout.ValuePath(path, j), row)
			}
		case f.m.maps[path] || path == "":
			for j, k := range v.Fields {
				f.value(v.Values[j], layout.FieldPath(path, k.String), row)
			}
		case f.m.arrays[path]:
			f.value(v, f.first(path), row)
		default:
			f.m.warn(path, "object value has no map slot")
		}
	default:
		if _, ok := p.Columns[path]; ok {
			f.cells = append(f.cells, cell{path: path, row: row, v: v})
			return
		}
		if f.m.arrays[path] {
			f.value(v, f.first(path), row)
			return
		}
		f.cells = append(f.cells, cell{path: path, row: row, v: v})
	}
}

// first is the path of the first element of the array at path, where a
// non-array value of an array field is placed.
func (f *flattener) first(path string) string {
	if f.m.p.Vertical[path] {
		return layout.RowPath(path)
	}
	return layout.IndexPath(path, 0)
}
