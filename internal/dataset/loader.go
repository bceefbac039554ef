package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"spend-insights-go/internal/logger"
	"spend-insights-go/internal/types"
)

// ErrMissingHeader means no line of the export carries a header marker.
var ErrMissingHeader = errors.New("no header row found")

// headerMarkers identify the header line; title and metadata rows above it
// are discarded.
var headerMarkers = []string{"spends_gst", "showname", "grouped showname"}

// placeholderShows are total and pivot-label rows, compared case-insensitively.
var placeholderShows = map[string]struct{}{
	"grand total": {},
	"values":      {},
}

// Normalizer converts export files into canonical show records. It keeps
// no state between files.
type Normalizer struct {
	log       *logger.Logger
	readRetry time.Duration
}

func NewNormalizer(log *logger.Logger, readRetry time.Duration) *Normalizer {
	if log == nil {
		log = logger.New()
	}
	return &Normalizer{log: log.WithComponent("dataset.normalizer"), readRetry: readRetry}
}

// ParseFile reads path and parses it under its base name.
func (n *Normalizer) ParseFile(path string) ([]types.ShowRecord, error) {
	data, err := ReadSource(path, n.readRetry)
	if err != nil {
		return nil, err
	}
	return n.Parse(bytes.NewReader(data), filepath.Base(path))
}

// Parse reads one export. Channel and platform come from filename; .xlsx
// files are read from their first sheet, anything else as CSV. An export
// without a header row is logged and yields no records and no error.
func (n *Normalizer) Parse(r io.Reader, filename string) ([]types.ShowRecord, error) {
	log := n.log.WithField("file", filename)

	var (
		rows [][]string
		err  error
	)
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		rows, err = readXLSX(r)
	} else {
		rows, err = readCSV(r)
	}
	if errors.Is(err, ErrMissingHeader) {
		log.Warn("could not find header row, skipping file")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	src := DetectSource(filename)
	d := DeriverFor(src)
	cols, missing := d.Columns().Resolve(NewHeader(rows[0]))
	log = log.WithField("channel", src.Channel).WithField("platform", src.Platform).WithField("rule", d.Name())
	if len(missing) > 0 {
		names := make([]string, len(missing))
		for i, f := range missing {
			names[i] = f.String()
		}
		log.WithField("fields", strings.Join(names, ",")).Info("columns not found, defaulting to 0")
	}

	var out []types.ShowRecord
	for _, cells := range rows[1:] {
		row := Row{cells: cells, cols: cols}
		show := strings.TrimSpace(row.Text(FieldShow))
		if isPlaceholderShow(show) {
			continue
		}
		spend := nonNegative(row.Number(FieldSpend))
		m := d.Derive(row)
		if spend <= 0 && m.Trials <= 0 {
			continue
		}
		rec := types.ShowRecord{
			Show:     show,
			Channel:  src.Channel,
			Platform: src.Platform,
			Spend:    spend,
			Trials:   m.Trials,
			CAC:      m.CAC,
			IR:       m.IR,
			TR:       m.TR,
			TCR:      m.TCR,
			CTR:      m.CTR,
		}
		log.WithField("show", rec.Show).WithField("trials", rec.Trials).WithField("cac", rec.CAC).Debug("record extracted")
		out = append(out, rec)
	}
	log.WithField("records", len(out)).Info("file parsed")
	return out, nil
}

func isPlaceholderShow(name string) bool {
	if name == "" || strings.Contains(name, "Week") {
		return true
	}
	_, ok := placeholderShows[strings.ToLower(name)]
	return ok
}

func isHeaderLine(line string) bool {
	l := strings.ToLower(line)
	for _, m := range headerMarkers {
		if strings.Contains(l, m) {
			return true
		}
	}
	return false
}

// readCSV returns the header row followed by data rows.
func readCSV(r io.Reader) ([][]string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(content), "\n")
	start := -1
	for i, l := range lines {
		if isHeaderLine(l) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, ErrMissingHeader
	}
	cr := csv.NewReader(strings.NewReader(strings.Join(lines[start:], "\n")))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrMissingHeader
	}
	return rows, nil
}

// readXLSX applies the same header search to the first sheet of a workbook.
func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	for i, row := range rows {
		if isHeaderLine(strings.Join(row, ",")) {
			return rows[i:], nil
		}
	}
	return nil, ErrMissingHeader
}
