package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-runewidth"
	"spend-insights-go/internal/actionable"
	"spend-insights-go/internal/aggregator"
)

// Markdown renders a report for terminals and plain-text sharing.
func Markdown(r Report) string {
	var b strings.Builder

	title := "Portfolio"
	if r.Market != "" {
		title = strings.ToUpper(r.Market[:1]) + r.Market[1:]
	}
	fmt.Fprintf(&b, "# %s performance\n\n", title)
	fmt.Fprintf(&b, "Run `%s`, %d records, generated %s.\n\n", r.RunID, len(r.Records), r.GeneratedAt.Format("2006-01-02 15:04 MST"))

	b.WriteString("## Metrics\n\n")
	rows := [][]string{{"Segment", "Spend", "Trials", "CAC", "IR%", "TR%", "TCR%", "CTR%"}, nil}
	for _, s := range segments(r) {
		rows = append(rows, []string{
			s.name, money(s.m.TotalSpend), fmt.Sprintf("%d", s.m.TotalTrials),
			money(s.m.CAC), pct(s.m.IR), pct(s.m.TR), pct(s.m.TCR), pct(s.m.CTR),
		})
	}
	writeTable(&b, rows)

	b.WriteString("\n## Health\n\n")
	writeHealth(&b, r.Metrics.Health)

	b.WriteString("\n## Insights\n\n")
	if len(r.Insights) == 0 {
		b.WriteString("No insights.\n")
	}
	for i, in := range r.Insights {
		fmt.Fprintf(&b, "### %d. [%s] %s\n\n", i+1, strings.ToUpper(string(in.Priority)), in.Title)
		fmt.Fprintf(&b, "%s\n\n", in.Analysis)
		fmt.Fprintf(&b, "**Recommendation:** %s\n\n", in.Recommendation)
		fmt.Fprintf(&b, "**Impact:** %s\n\n", in.Impact)
	}

	b.WriteString("## Shows\n\n")
	rows = [][]string{{"Show", "Channel", "Platform", "Spend", "Trials", "CAC", "TCR%"}, nil}
	for _, rec := range actionable.Rank(r.Records) {
		rows = append(rows, []string{
			rec.Show, string(rec.Channel), string(rec.Platform),
			money(rec.Spend), fmt.Sprintf("%d", rec.Trials), money(rec.CAC), pct(rec.TCR),
		})
	}
	writeTable(&b, rows)
	return b.String()
}

// Render formats markdown for the terminal.
func Render(md string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

func writeHealth(b *strings.Builder, h aggregator.Health) {
	items := []struct {
		name string
		ok   bool
		rule string
	}{
		{"CAC", h.CAC, fmt.Sprintf("< %.0f", aggregator.CACTarget)},
		{"CTR", h.CTR, fmt.Sprintf("> %.2f%%", aggregator.CTRTarget)},
		{"IR", h.IR, fmt.Sprintf(">= %.0f%%", aggregator.IRTarget)},
		{"TR", h.TR, fmt.Sprintf(">= %.0f%%", aggregator.TRTarget)},
		{"TCR", h.TCR, fmt.Sprintf("< %.0f%%", aggregator.TCRTarget)},
	}
	for _, it := range items {
		state := "off target"
		if it.ok {
			state = "healthy"
		}
		fmt.Fprintf(b, "- %s %s (target %s)\n", it.name, state, it.rule)
	}
}

// writeTable pads cells to their display width so tables line up in plain
// text as well. A nil row becomes the separator.
func writeTable(b *strings.Builder, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}

	for _, row := range rows {
		b.WriteString("|")
		for i, w := range widths {
			b.WriteString(" ")
			if row == nil {
				b.WriteString(strings.Repeat("-", w))
			} else {
				b.WriteString(runewidth.FillRight(row[i], w))
			}
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}
}

func money(v float64) string { return fmt.Sprintf("%.0f", v) }

func pct(v float64) string { return fmt.Sprintf("%.2f", v) }
