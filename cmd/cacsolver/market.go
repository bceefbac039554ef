package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"spend-insights-go/internal/pipeline"
	"spend-insights-go/internal/report"
)

type marketCmd struct {
	name  string
	quiet bool
	raw   bool
}

func (*marketCmd) Name() string     { return "market" }
func (*marketCmd) Synopsis() string { return "build the report of one market" }
func (*marketCmd) Usage() string {
	return `cacsolver market -m <market> [-q] [-raw]

  Parses every export in the market folder under DATA_DIR, writes the JSON,
  workbook and markdown reports to OUTPUT_DIR and prints the markdown.
`
}

func (c *marketCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "m", "gujarati", "market name")
	f.BoolVar(&c.quiet, "q", false, "do not print the report")
	f.BoolVar(&c.raw, "raw", false, "print markdown without terminal styling")
}

func (c *marketCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	m, err := cfg.Market(c.name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	p := pipeline.New(cfg, log)
	r, err := p.RunMarket(m)
	if err != nil {
		return fail(err)
	}
	paths, err := report.WriteAll(cfg.OutputDir, r)
	if err != nil {
		return fail(err)
	}
	log.WithRun(p.RunID()).WithField("files", paths).Info("reports written")

	if !c.quiet {
		printMarkdown(report.Markdown(r), c.raw)
	}
	return subcommands.ExitSuccess
}
