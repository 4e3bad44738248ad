// Package gridtree converts between marker-annotated cell grids and
// document trees.
//
// Decoding reads the scheme rows at the top of a grid, delimited by
// $scheme_end, and parses every following data row against them.
// Encoding infers the structure of a tree, selects a layout strategy,
// plans a scheme and writes scheme and data rows onto a grid.
//
//	docs, err := gridtree.Decode(g)
//	res, err := gridtree.Encode(w, doc, gridtree.WithStrategy(layout.Vertical))
package gridtree

import (
	"fmt"
	"log/slog"

	"github.com/signadot/gridtree/analyze"
	"github.com/signadot/gridtree/decode"
	"github.com/signadot/gridtree/grid"
	"github.com/signadot/gridtree/ir"
	"github.com/signadot/gridtree/layout"
	"github.com/signadot/gridtree/materialize"
)

type Config struct {
	IncludeEmpty      bool
	InferTypes        bool
	Strategy          *layout.Strategy
	Rule              *layout.Rule
	AnalyzeThresholds analyze.Thresholds
	LayoutThresholds  layout.Thresholds
	Logger            *slog.Logger
}

type Opt func(*Config)

func IncludeEmpty(v bool) Opt {
	return func(c *Config) { c.IncludeEmpty = v }
}

func InferTypes(v bool) Opt {
	return func(c *Config) { c.InferTypes = v }
}

// WithStrategy forces a layout strategy instead of selecting one.
func WithStrategy(s layout.Strategy) Opt {
	return func(c *Config) { c.Strategy = &s }
}

func WithRule(r *layout.Rule) Opt {
	return func(c *Config) { c.Rule = r }
}

func WithAnalyzeThresholds(th analyze.Thresholds) Opt {
	return func(c *Config) { c.AnalyzeThresholds = th }
}

func WithLayoutThresholds(th layout.Thresholds) Opt {
	return func(c *Config) { c.LayoutThresholds = th }
}

func Logger(l *slog.Logger) Opt {
	return func(c *Config) { c.Logger = l }
}

func newConfig(opts []Opt) *Config {
	c := &Config{
		AnalyzeThresholds: analyze.DefaultThresholds(),
		LayoutThresholds:  layout.DefaultThresholds(),
		Logger:            slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Decode parses the documents held by g.
func Decode(g grid.Reader, opts ...Opt) ([]*ir.Node, error) {
	c := newConfig(opts)
	res, err := decode.Grid(g,
		decode.IncludeEmpty(c.IncludeEmpty),
		decode.InferTypes(c.InferTypes),
		decode.Logger(c.Logger))
	if err != nil {
		return nil, err
	}
	return res.Documents, nil
}

// Plan analyzes doc and plans its layout.
func Plan(doc *ir.Node, opts ...Opt) (*layout.Plan, *analyze.StructurePattern, error) {
	return plan(doc, newConfig(opts))
}

func plan(doc *ir.Node, c *Config) (*layout.Plan, *analyze.StructurePattern, error) {
	sp, err := analyze.Analyze(doc,
		analyze.WithThresholds(c.AnalyzeThresholds),
		analyze.Logger(c.Logger))
	if err != nil {
		return nil, nil, err
	}
	lopts := []layout.BuildOption{
		layout.WithThresholds(c.LayoutThresholds),
		layout.WithRule(c.Rule),
		layout.Logger(c.Logger),
	}
	var p *layout.Plan
	if c.Strategy != nil {
		p, err = layout.Build(sp, *c.Strategy, lopts...)
	} else {
		p, err = layout.Auto(sp, lopts...)
	}
	if err != nil {
		return nil, nil, err
	}
	return p, sp, nil
}

// Encode writes doc onto w.
func Encode(w grid.Writer, doc *ir.Node, opts ...Opt) (*materialize.Result, error) {
	c := newConfig(opts)
	p, _, err := plan(doc, c)
	if err != nil {
		return nil, err
	}
	return materialize.Write(w, p, doc, materialize.Logger(c.Logger))
}

// RoundTrip encodes doc onto an in-memory grid and decodes it back.
func RoundTrip(doc *ir.Node, opts ...Opt) (*ir.Node, *grid.Mem, error) {
	g := grid.NewMem()
	if _, err := Encode(g, doc, opts...); err != nil {
		return nil, nil, err
	}
	docs, err := Decode(g, opts...)
	if err != nil {
		return nil, g, err
	}
	if len(docs) != 1 {
		return nil, g, fmt.Errorf("round trip produced %d documents", len(docs))
	}
	return docs[0], g, nil
}
