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

type parseCmd struct {
	jsonOut string
	raw     bool
}

func (*parseCmd) Name() string     { return "parse" }
func (*parseCmd) Synopsis() string { return "report on export files given on the command line" }
func (*parseCmd) Usage() string {
	return `cacsolver parse [-json <file>] [-raw] <export>...

  Parses the given CSV or XLSX exports, regardless of market folders, and
  prints the resulting report. Channel and platform come from each filename.
`
}

func (c *parseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.jsonOut, "json", "", "also write the report as JSON to this file")
	f.BoolVar(&c.raw, "raw", false, "print markdown without terminal styling")
}

func (c *parseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one export file is required")
		return subcommands.ExitUsageError
	}
	cfg, log, err := setup()
	if err != nil {
		return fail(err)
	}

	r, err := pipeline.New(cfg, log).Run("", f.Args())
	if err != nil {
		return fail(err)
	}
	if c.jsonOut != "" {
		if err := report.WriteJSON(c.jsonOut, r); err != nil {
			return fail(err)
		}
	}
	printMarkdown(report.Markdown(r), c.raw)
	return subcommands.ExitSuccess
}
