package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/google/subcommands"
	"spend-insights-go/internal/pipeline"
	"spend-insights-go/internal/report"
)

type unifiedCmd struct {
	out string
}

func (*unifiedCmd) Name() string     { return "unified" }
func (*unifiedCmd) Synopsis() string { return "combine every market into a single JSON report" }
func (*unifiedCmd) Usage() string {
	return `cacsolver unified [-o <file>]

  Processes all market folders and writes one JSON document keyed by market.
`
}

func (c *unifiedCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "o", "", "output file (default OUTPUT_DIR/dashboard_unified.json)")
}

func (c *unifiedCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := setup()
	if err != nil {
		return fail(err)
	}
	p := pipeline.New(cfg, log)
	reports, err := p.RunAll()
	if err != nil {
		return fail(err)
	}

	out := c.out
	if out == "" {
		out = filepath.Join(cfg.OutputDir, report.FileName("unified", "json"))
	}
	if err := report.WriteJSON(out, report.NewUnified(p.RunID(), reports)); err != nil {
		return fail(err)
	}
	fmt.Println(out)
	return subcommands.ExitSuccess
}
