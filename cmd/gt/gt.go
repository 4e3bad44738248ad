package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"
)

// gtMain parses the global options, checks the document formats they
// select and runs the named subcommand.
func gtMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	defer cfg.closeOut()
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if err := cfg.checkFormats(); err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if !errors.Is(err, cli.ErrUsage) {
		return err
	}
	sub.Usage(cc, err)
	cfg.closeOut()
	os.Exit(sub.Exit(cc, err))
	return nil
}

// checkFormats rejects option combinations no subcommand can honor:
// documents are read and written as yaml or json, and only sheets are
// read as xlsx.
func (cfg *MainConfig) checkFormats() error {
	if cfg.J && cfg.Y {
		return fmt.Errorf("%w: -j and -y are exclusive", cli.ErrUsage)
	}
	if cfg.OutFormat != nil && !cfg.OutFormat.IsText() {
		return fmt.Errorf("%w: -O %s: documents are written as yaml or json, use encode for sheets", cli.ErrUsage, *cfg.OutFormat)
	}
	return nil
}

// outOpt sends output to file a; "-" keeps stdout.
func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	if a == "-" {
		return nil, nil
	}
	f, err := os.Create(a)
	if err != nil {
		return nil, fmt.Errorf("could not create %q: %w", a, err)
	}
	cfg.Out, cc.Out, cfg.CloseOut = a, f, f.Close
	return nil, nil
}

func (cfg *MainConfig) closeOut() {
	if cfg.CloseOut == nil {
		return
	}
	cfg.CloseOut()
	cfg.CloseOut = nil
}
