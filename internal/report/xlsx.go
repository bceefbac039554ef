package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"spend-insights-go/internal/aggregator"
	"spend-insights-go/internal/types"
)

const (
	sheetRecords  = "Records"
	sheetMetrics  = "Metrics"
	sheetInsights = "Insights"
)

// WriteXLSX writes the report as a workbook with Records, Metrics and
// Insights sheets.
func WriteXLSX(path string, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetRecords); err != nil {
		return err
	}
	for _, s := range []string{sheetMetrics, sheetInsights} {
		if _, err := f.NewSheet(s); err != nil {
			return err
		}
	}

	rows := [][]any{{"Show", "Channel", "Platform", "Spend", "Trials", "CAC", "IR%", "TR%", "TCR%", "CTR%"}}
	for _, rec := range r.Records {
		rows = append(rows, []any{rec.Show, string(rec.Channel), string(rec.Platform), rec.Spend, rec.Trials, rec.CAC, rec.IR, rec.TR, rec.TCR, rec.CTR})
	}
	if err := writeRows(f, sheetRecords, rows); err != nil {
		return err
	}

	rows = [][]any{metricsHeader()}
	for _, s := range segments(r) {
		rows = append(rows, metricsRow(s.name, s.m))
	}
	if err := writeRows(f, sheetMetrics, rows); err != nil {
		return err
	}

	rows = [][]any{{"Priority", "Kind", "Title", "Analysis", "Recommendation", "Impact"}}
	for _, in := range r.Insights {
		rows = append(rows, []any{string(in.Priority), in.Kind, in.Title, in.Analysis, in.Recommendation, in.Impact})
	}
	if err := writeRows(f, sheetInsights, rows); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

type namedMetrics struct {
	name string
	m    aggregator.Metrics
}

// segments lists the blended view followed by each channel and platform in
// a fixed order.
func segments(r Report) []namedMetrics {
	return []namedMetrics{
		{"All", r.Metrics},
		{"Meta", r.ByChannel[types.ChannelMeta]},
		{"Google", r.ByChannel[types.ChannelGoogle]},
		{"App", r.ByPlatform[types.PlatformApp]},
		{"Web", r.ByPlatform[types.PlatformWeb]},
	}
}

func metricsHeader() []any {
	return []any{"Segment", "Spend", "Trials", "CAC", "IR%", "TR%", "TCR%", "CTR%"}
}

func metricsRow(name string, m aggregator.Metrics) []any {
	return []any{name, m.TotalSpend, m.TotalTrials, m.CAC, m.IR, m.TR, m.TCR, m.CTR}
}
