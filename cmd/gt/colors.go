package main

import (
	"github.com/fatih/color"
	"github.com/signadot/gridtree/grid"
	"github.com/signadot/gridtree/scheme"
)

type Colors struct {
	Container func(string, ...any) string
	Property  func(string, ...any) string
	KeyValue  func(string, ...any) string
	Ignore    func(string, ...any) string
	End       func(string, ...any) string
	Deleted   func(string, ...any) string
	Inserted  func(string, ...any) string
}

func NewColors() *Colors {
	color.NoColor = false
	return &Colors{
		Container: color.RGB(255, 0, 196).SprintfFunc(),
		Property:  color.RGB(196, 96, 16).SprintfFunc(),
		KeyValue:  color.RGB(128, 216, 236).SprintfFunc(),
		Ignore:    color.New(color.Faint).SprintfFunc(),
		End:       color.RGB(74, 92, 138).SprintfFunc(),
		Deleted:   color.RedString,
		Inserted:  color.GreenString,
	}
}

// Cells returns a render hook coloring the scheme cells of g by marker
// kind.  Data cells are left alone, as is every cell of a grid without a
// valid scheme.
func (c *Colors) Cells(g grid.Reader) func(row, col int, text string) string {
	dataStart := -1
	if t, err := scheme.Build(g); err == nil {
		dataStart = t.DataStart
	}
	return func(row, col int, text string) string {
		if row >= dataStart {
			return text
		}
		if scheme.IsSchemeEnd(text) {
			return c.End("%s", text)
		}
		k, _ := scheme.ParseMarker(text)
		switch k {
		case scheme.Map, scheme.Array:
			return c.Container("%s", text)
		case scheme.Key, scheme.Value:
			return c.KeyValue("%s", text)
		case scheme.Ignore:
			return c.Ignore("%s", text)
		}
		return c.Property("%s", text)
	}
}
