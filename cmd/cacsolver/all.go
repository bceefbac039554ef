package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"spend-insights-go/internal/pipeline"
	"spend-insights-go/internal/report"
)

type allCmd struct{}

func (*allCmd) Name() string     { return "all" }
func (*allCmd) Synopsis() string { return "build a report for every market with data" }
func (*allCmd) Usage() string {
	return `cacsolver all

  Processes each configured market folder found under DATA_DIR and writes
  one set of reports per market to OUTPUT_DIR.
`
}

func (*allCmd) SetFlags(*flag.FlagSet) {}

func (*allCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := setup()
	if err != nil {
		return fail(err)
	}
	p := pipeline.New(cfg, log)
	reports, err := p.RunAll()
	if err != nil {
		return fail(err)
	}
	for _, r := range reports {
		paths, err := report.WriteAll(cfg.OutputDir, r)
		if err != nil {
			return fail(err)
		}
		for _, path := range paths {
			fmt.Println(path)
		}
	}
	log.WithRun(p.RunID()).WithField("markets", len(reports)).Info("all markets processed")
	return subcommands.ExitSuccess
}
