package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
	"github.com/signadot/gridtree"
	"github.com/signadot/gridtree/format"
	"github.com/signadot/gridtree/layout"
)

type MainConfig struct {
	Color   bool   `cli:"name=color desc='render with color'"`
	Verbose bool   `cli:"name=v aliases=verbose desc='log warnings and plan decisions'"`
	Sheet   string `cli:"name=sheet desc='xlsx sheet name' default=Sheet1"`

	J bool `cli:"name=j aliases=json desc='do text i/o in json'"`
	Y bool `cli:"name=y aliases=yaml desc='do text i/o in yaml'"`

	InFormat, OutFormat *format.Format

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fps ...**format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

// textFormat is the text format used for reading or writing documents.
// An explicit -I/-O wins over -j/-y, which win over the file extension.
func (cfg *MainConfig) textFormat(explicit *format.Format, file string) (format.Format, error) {
	f := format.YAMLFormat
	if file != "" && file != "-" {
		if pf, err := format.FromPath(file); err == nil {
			f = pf
		}
	}
	switch {
	case cfg.J:
		f = format.JSONFormat
	case cfg.Y:
		f = format.YAMLFormat
	}
	if explicit != nil {
		f = *explicit
	}
	if !f.IsText() {
		return f, fmt.Errorf("%w: %s is not a document format", cli.ErrUsage, f)
	}
	return f, nil
}

func (cfg *MainConfig) sheet() string {
	if cfg.Sheet == "" {
		return "Sheet1"
	}
	return cfg.Sheet
}

// colors reports whether output to w should be colored: -color forces it,
// otherwise it is on for terminals.
func (cfg *MainConfig) colors(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		if opt.Value != nil {
			return false
		}
		break
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

// PlanConfig holds the options steering analysis and layout.  Commands
// bind it separately from their own options.
type PlanConfig struct {
	Strategy string `cli:"name=s aliases=strategy desc='force a layout strategy: simple, horizontal, vertical, mixed'"`
	Rule     string `cli:"name=rule desc='expression over layout metrics naming a strategy'"`
	Columns  int    `cli:"name=max-columns desc='maximum number of columns'"`
}

func (cfg *MainConfig) logger() gridtree.Opt {
	if cfg.Verbose {
		return gridtree.Logger(theLog)
	}
	return func(*gridtree.Config) {}
}

func (pc *PlanConfig) gtOpts(m *MainConfig) ([]gridtree.Opt, error) {
	res := []gridtree.Opt{m.logger()}
	if pc.Strategy != "" {
		s, err := layout.ParseStrategy(pc.Strategy)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		res = append(res, gridtree.WithStrategy(s))
	}
	if pc.Rule != "" {
		r, err := layout.CompileRule(pc.Rule)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		res = append(res, gridtree.WithRule(r))
	}
	if pc.Columns > 0 {
		th := layout.DefaultThresholds()
		th.MaxColumns = pc.Columns
		res = append(res, gridtree.WithLayoutThresholds(th))
	}
	return res, nil
}

type DecodeConfig struct {
	*MainConfig

	IncludeEmpty bool `cli:"name=empty desc='decode empty cells as null'"`
	InferTypes   bool `cli:"name=infer desc='infer null, bool and number values from text cells'"`

	Decode *cli.Command
}

type EncodeConfig struct {
	*MainConfig
	Layout *PlanConfig

	Encode *cli.Command
}

type PlanCmdConfig struct {
	*MainConfig
	Layout *PlanConfig

	Plan *cli.Command
}

type ViewConfig struct {
	*MainConfig
	Layout *PlanConfig

	Rows int `cli:"name=n desc='render at most n rows'"`

	View *cli.Command
}

type CheckConfig struct {
	*MainConfig
	Layout *PlanConfig

	InferTypes bool `cli:"name=infer desc='infer types when decoding the grid back'"`

	Check *cli.Command
}
