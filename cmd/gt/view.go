package main

import (
	"fmt"
	"io"

	"github.com/scott-cotton/cli"
	"github.com/signadot/gridtree"
	"github.com/signadot/gridtree/grid"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		return err
	}
	var grids []*grid.Mem
	for _, file := range inputFiles(args) {
		gs, err := viewGrids(cfg, cc, file)
		if err != nil {
			return fmt.Errorf("error processing %s: %w", file, err)
		}
		grids = append(grids, gs...)
	}
	var colors *Colors
	if cfg.colors(cc.Out) {
		colors = NewColors()
	}
	for i, g := range grids {
		if err := viewGrid(cfg, cc.Out, g, colors); err != nil {
			return err
		}
		if i < len(grids)-1 {
			if _, err := io.WriteString(cc.Out, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

// viewGrids reads file as a sheet, or lays out each of its documents onto
// an in-memory grid.
func viewGrids(cfg *ViewConfig, cc *cli.Context, file string) ([]*grid.Mem, error) {
	if isSheet(cfg.MainConfig, file) {
		g, err := readSheet(cfg.MainConfig, cc, file)
		if err != nil {
			return nil, err
		}
		return []*grid.Mem{g}, nil
	}
	opts, err := cfg.Layout.gtOpts(cfg.MainConfig)
	if err != nil {
		return nil, err
	}
	docs, err := readDocs(cfg.MainConfig, cc, file)
	if err != nil {
		return nil, err
	}
	res := make([]*grid.Mem, 0, len(docs))
	for i, doc := range docs {
		g := grid.NewMem()
		r, err := gridtree.Encode(g, doc, opts...)
		if err != nil {
			return nil, fmt.Errorf("error encoding document %d: %w", i, err)
		}
		logWarnings(file, r.Warnings)
		res = append(res, g)
	}
	return res, nil
}

func viewGrid(cfg *ViewConfig, w io.Writer, g *grid.Mem, colors *Colors) error {
	opts := []grid.RenderOption{grid.RenderMaxRows(cfg.Rows)}
	if colors != nil {
		opts = append(opts, grid.RenderCells(colors.Cells(g)))
	}
	_, err := io.WriteString(w, grid.Render(g, opts...)+"\n")
	return err
}
