package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/google/subcommands"
	"spend-insights-go/internal/config"
	"spend-insights-go/internal/logger"
	"spend-insights-go/internal/report"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&marketCmd{}, "")
	commander.Register(&allCmd{}, "")
	commander.Register(&unifiedCmd{}, "")
	commander.Register(&parseCmd{}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// setup loads configuration and a logger writing to stderr, keeping stdout
// for reports.
func setup() (*config.Config, *logger.Logger, error) {
	log := logger.NewWithOutput(os.Stderr)
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log.WithField("data_dir", cfg.DataDir).WithField("output_dir", cfg.OutputDir).Debug("configuration loaded")
	return cfg, log, nil
}

// printMarkdown renders md for the terminal, or prints it raw when raw is
// set or rendering fails.
func printMarkdown(md string, raw bool) {
	if !raw {
		if out, err := report.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}
