package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"spend-insights-go/internal/config"
	"spend-insights-go/internal/dataset"
	"spend-insights-go/internal/logger"
	"spend-insights-go/internal/report"
	"spend-insights-go/internal/types"
)

var (
	// ErrEmptyResult means every file of a batch was processed and none
	// produced a record. No report is built from nothing.
	ErrEmptyResult = errors.New("no records extracted")
	// ErrNoMarketData means no configured market yielded records.
	ErrNoMarketData = errors.New("no market data found")
)

var exportExts = map[string]bool{".csv": true, ".xlsx": true}

// Discover lists the exports in dir, sorted by name. Excel lock files and
// hidden files are ignored.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
			continue
		}
		if exportExts[strings.ToLower(filepath.Ext(name))] {
			files = append(files, filepath.Join(dir, name))
		}
	}
	sort.Strings(files)
	return files, nil
}

// Runner drives one batch. Every report it builds carries the same run id.
type Runner struct {
	cfg   *config.Config
	log   *logger.Logger
	norm  *dataset.Normalizer
	runID string
}

func New(cfg *config.Config, log *logger.Logger) *Runner {
	if log == nil {
		log = logger.New()
	}
	runID := uuid.NewString()
	log = log.WithRun(runID)
	return &Runner{
		cfg:   cfg,
		log:   log.WithComponent("pipeline"),
		norm:  dataset.NewNormalizer(log, cfg.ReadRetry),
		runID: runID,
	}
}

func (p *Runner) RunID() string { return p.runID }

type fileResult struct {
	records []types.ShowRecord
	err     error
}

// Run parses files independently and builds one report from their union.
// Files that cannot be read or parsed are logged and skipped. Records keep
// the order of files, then rows.
func (p *Runner) Run(market string, files []string) (report.Report, error) {
	log := p.log.WithField("market", market)
	log.WithField("files", len(files)).Info("batch started")

	results := make([]fileResult, len(files))
	var wg sync.WaitGroup
	for i, path := range files {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			recs, err := p.norm.ParseFile(path)
			results[i] = fileResult{records: recs, err: err}
		}(i, path)
	}
	wg.Wait()

	var all []types.ShowRecord
	skipped := 0
	for i, res := range results {
		if res.err != nil {
			skipped++
			entry := p.log.WithError(res.err).WithField("market", market).WithField("file", filepath.Base(files[i]))
			var ue *dataset.UnreadableFileError
			if errors.As(res.err, &ue) {
				entry.Warn("unreadable file, skipping")
			} else {
				entry.Warn("could not parse file, skipping")
			}
			continue
		}
		all = append(all, res.records...)
	}

	if len(all) == 0 {
		log.WithField("skipped", skipped).Error("no records extracted")
		return report.Report{}, fmt.Errorf("%w: market %q, %d files", ErrEmptyResult, market, len(files))
	}
	log.WithField("records", len(all)).WithField("skipped", skipped).Info("batch finished")
	return report.Build(p.runID, market, all), nil
}

// RunMarket discovers and processes the exports of one market.
func (p *Runner) RunMarket(m config.Market) (report.Report, error) {
	files, err := Discover(p.cfg.MarketDir(m))
	if err != nil {
		return report.Report{}, fmt.Errorf("market %s: %w", m.Name, err)
	}
	return p.Run(m.Name, files)
}

// RunAll processes every configured market. Markets without a data folder
// or without records are logged and left out.
func (p *Runner) RunAll() ([]report.Report, error) {
	var out []report.Report
	for _, m := range p.cfg.Markets {
		log := p.log.WithField("market", m.Name).WithField("folder", m.Folder)
		r, err := p.RunMarket(m)
		switch {
		case errors.Is(err, os.ErrNotExist):
			log.Info("no data folder, skipping market")
			continue
		case errors.Is(err, ErrEmptyResult):
			log.Warn("no data extracted, skipping market")
			continue
		case err != nil:
			return nil, err
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, ErrNoMarketData
	}
	return out, nil
}
