package main

import (
	"errors"
	"testing"

	"github.com/scott-cotton/cli"
	"github.com/signadot/gridtree/format"
)

func TestCheckFormats(t *testing.T) {
	xlsx, json := format.XLSXFormat, format.JSONFormat
	tests := []struct {
		name string
		cfg  MainConfig
		err  bool
	}{
		{"defaults", MainConfig{}, false},
		{"json", MainConfig{J: true, OutFormat: &json}, false},
		{"xlsx input", MainConfig{InFormat: &xlsx}, false},
		{"json and yaml", MainConfig{J: true, Y: true}, true},
		{"xlsx output", MainConfig{OutFormat: &xlsx}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.checkFormats()
			if tt.err != (err != nil) {
				t.Fatalf("got %v", err)
			}
			if err != nil && !errors.Is(err, cli.ErrUsage) {
				t.Errorf("expected usage error, got %v", err)
			}
		})
	}
}
