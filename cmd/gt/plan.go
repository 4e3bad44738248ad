package main

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/scott-cotton/cli"
	"github.com/signadot/gridtree"
	"github.com/signadot/gridtree/format"
	"github.com/signadot/gridtree/layout"
	"github.com/xuri/excelize/v2"
)

func planCmd(cfg *PlanCmdConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Plan.Parse(cc, args)
	if err != nil {
		return err
	}
	opts, err := cfg.Layout.gtOpts(cfg.MainConfig)
	if err != nil {
		return err
	}
	of, err := cfg.textFormat(cfg.OutFormat, cfg.Out)
	if err != nil {
		return err
	}
	n := 0
	for _, file := range inputFiles(args) {
		docs, err := readDocs(cfg.MainConfig, cc, file)
		if err != nil {
			return err
		}
		for i, doc := range docs {
			p, sp, err := gridtree.Plan(doc, opts...)
			if err != nil {
				return fmt.Errorf("error planning document %d of %s: %w", i, file, err)
			}
			th := layout.DefaultThresholds()
			if cfg.Layout.Columns > 0 {
				th.MaxColumns = cfg.Layout.Columns
			}
			cols := yaml.MapSlice{}
			for _, path := range p.Paths() {
				name, err := excelize.ColumnNumberToName(p.Columns[path] + 1)
				if err != nil {
					return err
				}
				cols = append(cols, yaml.MapItem{Key: name, Value: path})
			}
			warnings := []string{}
			for _, w := range sp.Warnings {
				warnings = append(warnings, w.String())
			}
			summary := yaml.MapSlice{
				{Key: "file", Value: file},
				{Key: "document", Value: i},
				{Key: "strategy", Value: p.Strategy.String()},
				{Key: "metrics", Value: layout.ComputeMetrics(sp, th)},
				{Key: "width", Value: p.Width},
				{Key: "dataStart", Value: p.DataStart()},
				{Key: "groupKey", Value: p.GroupKey},
				{Key: "columns", Value: cols},
				{Key: "warnings", Value: warnings},
			}
			if err := writeSummary(cc, summary, of, n > 0); err != nil {
				return err
			}
			n++
		}
	}
	return nil
}

func writeSummary(cc *cli.Context, v any, f format.Format, sep bool) error {
	var (
		d   []byte
		err error
	)
	if f.IsJSON() {
		d, err = yaml.MarshalWithOptions(v, yaml.JSON())
	} else {
		d, err = yaml.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("could not encode plan: %w", err)
	}
	if sep && !f.IsJSON() {
		if _, err := cc.Out.Write([]byte("---\n")); err != nil {
			return err
		}
	}
	_, err = cc.Out.Write(d)
	return err
}
