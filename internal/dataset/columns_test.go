package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCleanNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1,234.50", 1234.5},
		{"1,20,000", 120000},
		{"12.5%", 12.5},
		{"  42 ", 42},
		{"", 0},
		{"n/a", 0},
		{"-", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"-15", -15},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := CleanNumber(tt.in); got != tt.want {
				t.Errorf("CleanNumber(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestHeaderResolve(t *testing.T) {
	h := NewHeader([]string{"\ufeffShow_Name", " Spends_GST ", "CAC", "Mandate_CAC", "cac", ""})

	tests := []struct {
		name       string
		candidates []string
		want       int
	}{
		{"bom stripped", []string{"show_name"}, 0},
		{"trimmed and case-insensitive", []string{"SPENDS_GST"}, 1},
		{"first candidate wins", []string{"Mandate_CAC", "CAC"}, 3},
		{"falls through to later candidate", []string{"CP_AF_CPT_D0", "CAC"}, 2},
		{"first duplicate column kept", []string{"cac"}, 2},
		{"absent", []string{"Trial_web"}, -1},
		{"no candidates", nil, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.Resolve(tt.candidates...); got != tt.want {
				t.Errorf("Resolve(%v) = %d, want %d", tt.candidates, got, tt.want)
			}
		})
	}
}

func TestColumnTableResolve_ReportsMissing(t *testing.T) {
	h := NewHeader([]string{"Show_Name", "Spends_GST", "af_start_trial"})
	cols, missing := metaApp{}.Columns().Resolve(h)

	if cols[FieldShow] != 0 || cols[FieldSpend] != 1 || cols[FieldTrials] != 2 {
		t.Errorf("unexpected columns %v", cols)
	}
	want := []Field{FieldCAC, FieldIR, FieldTR, FieldTCR, FieldCTR}
	if len(missing) != len(want) {
		t.Fatalf("missing = %v, want %v", missing, want)
	}
	for i := range want {
		if missing[i] != want[i] {
			t.Errorf("missing[%d] = %s, want %s", i, missing[i], want[i])
		}
	}
}

func TestRowShortLine(t *testing.T) {
	r := Row{cells: []string{"Kesar"}, cols: Columns{FieldShow: 0, FieldSpend: 4}}
	if got := r.Text(FieldShow); got != "Kesar" {
		t.Errorf("Text(show) = %q", got)
	}
	if got := r.Number(FieldSpend); got != 0 {
		t.Errorf("Number(spend) on a short row = %v, want 0", got)
	}
	if got := r.Number(FieldCTR); got != 0 {
		t.Errorf("Number(ctr) unresolved = %v, want 0", got)
	}
}

func TestReadSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meta.csv")
	if err := os.WriteFile(path, []byte("Show_Name,Spends_GST\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"regular file", path, false},
		{"directory", dir, true},
		{"missing", filepath.Join(dir, "nope.csv"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			_, err := ReadSource(tt.path, 5*time.Second)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadSource() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var ue *UnreadableFileError
				if !errors.As(err, &ue) || ue.Path != tt.path {
					t.Errorf("err = %v, want *UnreadableFileError for %s", err, tt.path)
				}
				if time.Since(start) > 2*time.Second {
					t.Errorf("permanent failure was retried")
				}
			}
		})
	}
}
