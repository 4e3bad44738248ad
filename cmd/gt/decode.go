package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/gridtree/decode"
	"github.com/signadot/gridtree/format"
	"github.com/signadot/gridtree/ir"
	"github.com/signadot/gridtree/scheme"
)

func decodeCmd(cfg *DecodeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Decode.Parse(cc, args)
	if err != nil {
		return err
	}
	of, err := cfg.textFormat(cfg.OutFormat, cfg.Out)
	if err != nil {
		return err
	}
	opts := []decode.DecodeOption{
		decode.IncludeEmpty(cfg.IncludeEmpty),
		decode.InferTypes(cfg.InferTypes),
	}
	if cfg.Verbose {
		opts = append(opts, decode.Logger(theLog))
	}
	var docs []*ir.Node
	for _, file := range inputFiles(args) {
		g, err := readSheet(cfg.MainConfig, cc, file)
		if err != nil {
			return err
		}
		res, err := decode.Grid(g, opts...)
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", file, err)
		}
		logWarnings(file, res.Warnings)
		if cfg.Verbose {
			theLog.Info("decoded", "file", file, "rows", res.Rows, "documents", len(res.Documents))
		}
		docs = append(docs, res.Documents...)
	}
	if err := format.EncodeAll(cc.Out, docs, of); err != nil {
		return fmt.Errorf("error encoding %s: %w", of, err)
	}
	return nil
}

func logWarnings(file string, ws []scheme.Warning) {
	for _, w := range ws {
		theLog.Warn(w.Message, "file", file, "kind", w.Kind.String(), "path", w.Path)
	}
}
