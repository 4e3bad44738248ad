package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/scott-cotton/cli"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/signadot/gridtree"
	"github.com/signadot/gridtree/format"
	"github.com/signadot/gridtree/grid"
	"github.com/signadot/gridtree/ir"
)

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		return err
	}
	opts, err := cfg.Layout.gtOpts(cfg.MainConfig)
	if err != nil {
		return err
	}
	opts = append(opts, gridtree.InferTypes(cfg.InferTypes))
	var colors *Colors
	if cfg.colors(cc.Out) {
		colors = NewColors()
	}
	diffs := 0
	for _, file := range inputFiles(args) {
		docs, err := readDocs(cfg.MainConfig, cc, file)
		if err != nil {
			return err
		}
		for i, doc := range docs {
			got, g, err := gridtree.RoundTrip(doc, opts...)
			if err != nil {
				return fmt.Errorf("error in round trip of document %d of %s: %w", i, file, err)
			}
			if ir.Equivalent(doc, got) {
				if cfg.Verbose {
					theLog.Info("round trip ok", "file", file, "document", i)
				}
				continue
			}
			diffs++
			if _, err := fmt.Fprintf(cc.Out, "# %s document %d\n", file, i); err != nil {
				return err
			}
			if err := writeDiff(cc.Out, doc, got, colors); err != nil {
				return err
			}
			if cfg.Verbose {
				theLog.Info("grid", "file", file, "document", i, "cells", "\n"+grid.Render(g))
			}
		}
	}
	if diffs > 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// writeDiff writes a line diff of the YAML renderings of from and to.
func writeDiff(w io.Writer, from, to *ir.Node, colors *Colors) error {
	a, err := format.Encode(from, format.YAMLFormat)
	if err != nil {
		return err
	}
	b, err := format.Encode(to, format.YAMLFormat)
	if err != nil {
		return err
	}
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(string(a), string(b))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)
	for _, d := range diffs {
		prefix, paint := " ", fmt.Sprintf
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
			if colors != nil {
				paint = colors.Deleted
			}
		case diffmatchpatch.DiffInsert:
			prefix = "+"
			if colors != nil {
				paint = colors.Inserted
			}
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			if _, err := io.WriteString(w, paint("%s", prefix+strings.TrimSuffix(line, "\n"))+"\n"); err != nil {
				return err
			}
		}
	}
	return nil
}
