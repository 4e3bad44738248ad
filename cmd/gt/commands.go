package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		&cli.Opt{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
		},
		&cli.Opt{
			Name:        "I",
			Aliases:     []string{"ifmt"},
			Description: "document input format: json/j, yaml/y",
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.InFormat), "(format)"),
		}, &cli.Opt{
			Name:        "O",
			Aliases:     []string{"ofmt"},
			Description: "document output format: json/j, yaml/y",
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.OutFormat), "(format)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "gt").
		WithSynopsis("gt [opts] command [opts]").
		WithDescription("gt converts between scheme annotated spreadsheets and documents.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return gtMain(cfg, cc, args)
		}).
		WithSubs(
			DecodeCommand(cfg),
			EncodeCommand(cfg),
			PlanCommand(cfg),
			ViewCommand(cfg),
			CheckCommand(cfg))
}

// layoutOpts binds the options of v and of its layout config.
func layoutOpts(v any, pc *PlanConfig) []*cli.Opt {
	opts, err := cli.StructOpts(v)
	if err != nil {
		panic(err)
	}
	lOpts, err := cli.StructOpts(pc)
	if err != nil {
		panic(err)
	}
	return append(opts, lOpts...)
}

func DecodeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DecodeConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Decode, "decode").
		WithAliases("d", "dec").
		WithOpts(opts...).
		WithSynopsis("decode [opts] [xlsx files]").
		WithDescription("decode scheme annotated sheets into yaml or json documents").
		WithRun(func(cc *cli.Context, args []string) error {
			return decodeCmd(cfg, cc, args)
		})
}

func EncodeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &EncodeConfig{MainConfig: mainCfg, Layout: &PlanConfig{}}
	return cli.NewCommandAt(&cfg.Encode, "encode").
		WithAliases("e", "enc").
		WithOpts(layoutOpts(cfg, cfg.Layout)...).
		WithSynopsis("encode [opts] [file]").
		WithDescription("encode a yaml or json document into a scheme annotated xlsx sheet").
		WithRun(func(cc *cli.Context, args []string) error {
			return encodeCmd(cfg, cc, args)
		})
}

func PlanCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PlanCmdConfig{MainConfig: mainCfg, Layout: &PlanConfig{}}
	return cli.NewCommandAt(&cfg.Plan, "plan").
		WithAliases("p").
		WithOpts(layoutOpts(cfg, cfg.Layout)...).
		WithSynopsis("plan [opts] [file]").
		WithDescription("show the layout metrics, strategy and columns chosen for a document").
		WithRun(func(cc *cli.Context, args []string) error {
			return planCmd(cfg, cc, args)
		})
}

func ViewCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ViewConfig{MainConfig: mainCfg, Layout: &PlanConfig{}}
	return cli.NewCommandAt(&cfg.View, "view").
		WithAliases("v").
		WithOpts(layoutOpts(cfg, cfg.Layout)...).
		WithSynopsis("view [opts] [files]").
		WithDescription("render sheets, or documents laid out as sheets, as text tables").
		WithRun(func(cc *cli.Context, args []string) error {
			return view(cfg, cc, args)
		})
}

func CheckCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CheckConfig{MainConfig: mainCfg, Layout: &PlanConfig{}}
	return cli.NewCommandAt(&cfg.Check, "check").
		WithAliases("c").
		WithOpts(layoutOpts(cfg, cfg.Layout)...).
		WithSynopsis("check [opts] [files]").
		WithDescription("encode documents to a grid, decode them back and show differences").
		WithRun(func(cc *cli.Context, args []string) error {
			return check(cfg, cc, args)
		})
}
