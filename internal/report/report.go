// Package report assembles the output structure of a run and writes it as
// JSON, an Excel workbook or markdown.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"spend-insights-go/internal/actionable"
	"spend-insights-go/internal/aggregator"
	"spend-insights-go/internal/types"
)

var now = time.Now

// Report is everything a presentation layer needs for one market. Metrics
// and insights are computed here once; consumers must not recompute them.
type Report struct {
	RunID       string                                `json:"runId"`
	Market      string                                `json:"market,omitempty"`
	GeneratedAt time.Time                             `json:"generatedAt"`
	Records     []types.ShowRecord                    `json:"records"`
	Metrics     aggregator.Metrics                    `json:"metrics"`
	ByChannel   map[types.Channel]aggregator.Metrics  `json:"byChannel"`
	ByPlatform  map[types.Platform]aggregator.Metrics `json:"byPlatform"`
	Insights    []types.Insight                       `json:"insights"`
}

func Build(runID, market string, records []types.ShowRecord) Report {
	if records == nil {
		records = []types.ShowRecord{}
	}
	return Report{
		RunID:       runID,
		Market:      market,
		GeneratedAt: now().UTC(),
		Records:     records,
		Metrics:     aggregator.Aggregate(records),
		ByChannel:   aggregator.ByChannel(records),
		ByPlatform:  aggregator.ByPlatform(records),
		Insights:    actionable.Generate(records),
	}
}

// Unified bundles every market of one batch, keyed by market name.
type Unified struct {
	RunID       string            `json:"runId"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Markets     map[string]Report `json:"markets"`
}

func NewUnified(runID string, reports []Report) Unified {
	u := Unified{RunID: runID, GeneratedAt: now().UTC(), Markets: make(map[string]Report, len(reports))}
	for _, r := range reports {
		u.Markets[r.Market] = r
	}
	return u
}

// WriteJSON writes v indented to path, creating parent directories.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// FileName is the output name for a market, e.g. "dashboard_gujarati.json".
func FileName(market, ext string) string {
	if market == "" {
		market = "portfolio"
	}
	return "dashboard_" + market + "." + ext
}

// WriteAll writes the JSON, workbook and markdown forms of r into dir and
// returns the paths written.
func WriteAll(dir string, r Report) ([]string, error) {
	jsonPath := filepath.Join(dir, FileName(r.Market, "json"))
	if err := WriteJSON(jsonPath, r); err != nil {
		return nil, err
	}
	xlsxPath := filepath.Join(dir, FileName(r.Market, "xlsx"))
	if err := WriteXLSX(xlsxPath, r); err != nil {
		return nil, err
	}
	mdPath := filepath.Join(dir, FileName(r.Market, "md"))
	if err := os.WriteFile(mdPath, []byte(Markdown(r)), 0644); err != nil {
		return nil, fmt.Errorf("failed to write markdown: %w", err)
	}
	return []string{jsonPath, xlsxPath, mdPath}, nil
}
