package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"
	"github.com/signadot/gridtree/format"
	"github.com/signadot/gridtree/grid"
	"github.com/signadot/gridtree/ir"
)

// readInput reads file, or cc.In when file is "-".
func readInput(cc *cli.Context, file string) ([]byte, error) {
	if file == "-" {
		d, err := io.ReadAll(cc.In)
		if err != nil {
			return nil, fmt.Errorf("error reading stdin: %w", err)
		}
		return d, nil
	}
	d, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("could not read %q: %w", file, err)
	}
	return d, nil
}

func inputFiles(args []string) []string {
	if len(args) == 0 {
		return []string{"-"}
	}
	return args
}

func readDocs(cfg *MainConfig, cc *cli.Context, file string) ([]*ir.Node, error) {
	f, err := cfg.textFormat(cfg.InFormat, file)
	if err != nil {
		return nil, err
	}
	d, err := readInput(cc, file)
	if err != nil {
		return nil, err
	}
	docs, err := format.DecodeAll(d, f)
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", file, err)
	}
	return docs, nil
}

func readSheet(cfg *MainConfig, cc *cli.Context, file string) (*grid.Mem, error) {
	d, err := readInput(cc, file)
	if err != nil {
		return nil, err
	}
	g, err := grid.ReadXLSX(bytes.NewReader(d), cfg.sheet())
	if err != nil {
		return nil, fmt.Errorf("error reading sheet %q of %s: %w", cfg.sheet(), file, err)
	}
	return g, nil
}

// isSheet reports whether file is read as a workbook.
func isSheet(cfg *MainConfig, file string) bool {
	if cfg.InFormat != nil {
		return *cfg.InFormat == format.XLSXFormat
	}
	f, err := format.FromPath(file)
	return err == nil && f == format.XLSXFormat
}
