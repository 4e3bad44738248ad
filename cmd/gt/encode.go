package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
	"github.com/signadot/gridtree"
	"github.com/signadot/gridtree/grid"
)

func encodeCmd(cfg *EncodeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Encode.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: encode takes at most one file, got %v", cli.ErrUsage, args)
	}
	if f, ok := cc.Out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return fmt.Errorf("%w: not writing a workbook to a terminal, use -o", cli.ErrUsage)
	}
	opts, err := cfg.Layout.gtOpts(cfg.MainConfig)
	if err != nil {
		return err
	}
	file := inputFiles(args)[0]
	docs, err := readDocs(cfg.MainConfig, cc, file)
	if err != nil {
		return err
	}
	if len(docs) != 1 {
		return fmt.Errorf("%s holds %d documents, encode writes one per sheet", file, len(docs))
	}
	w, err := grid.NewXLSXWriter(cfg.sheet())
	if err != nil {
		return err
	}
	defer w.Close()
	res, err := gridtree.Encode(w, docs[0], opts...)
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", file, err)
	}
	logWarnings(file, res.Warnings)
	if cfg.Verbose {
		theLog.Info("encoded", "file", file, "rows", res.Rows, "cells", res.Cells, "groups", len(res.RowGroups))
	}
	return w.Write(cc.Out)
}
