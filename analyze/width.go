package analyze

// Width returns the number of grid columns a field needs when laid out
// horizontally.
func (p *PropertyPattern) Width() int {
	switch {
	case p.IsArray:
		return p.Array.Width()
	case p.Keyed:
		return 2 * p.MaxKeys
	case p.IsObject:
		return p.Object.Width()
	}
	return 1
}

func (f *Fields) Width() int {
	if f == nil {
		return 0
	}
	w := 0
	for _, name := range f.Order {
		w += f.ByName[name].Width()
	}
	return w
}

// Width is the width of one element slot: the object fields, then a
// scalar column, then the nested array run, each only when present.
func (s *ElementShape) Width() int {
	w := 0
	if s.Objects > 0 {
		w += s.Fields.Width()
	}
	if s.Scalars > 0 {
		w++
	}
	if s.Arrays > 0 && s.Nested != nil {
		w += s.Nested.Width()
	}
	return w
}

func (ap *ArrayPattern) Width() int {
	if ap.Mode == PerIndex {
		w := 0
		for _, s := range ap.PerIndex {
			w += s.Width()
		}
		return w
	}
	return ap.MaxSize * ap.Unified.Width()
}
