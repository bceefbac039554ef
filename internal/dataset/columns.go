package dataset

import (
	"fmt"
	"strings"
)

// Field is a logical column of the canonical record.
type Field int

const (
	FieldShow Field = iota
	FieldSpend
	FieldTrials
	FieldCAC
	FieldIR
	FieldTR
	FieldTCR
	FieldCTR
)

var fieldNames = map[Field]string{
	FieldShow:   "show",
	FieldSpend:  "spend",
	FieldTrials: "trials",
	FieldCAC:    "cac",
	FieldIR:     "ir",
	FieldTR:     "tr",
	FieldTCR:    "tcr",
	FieldCTR:    "ctr",
}

func (f Field) String() string {
	if n, ok := fieldNames[f]; ok {
		return n
	}
	return fmt.Sprintf("field(%d)", int(f))
}

// ColumnTable maps each field to the header spellings accepted for it, in
// order of preference.
type ColumnTable map[Field][]string

// Header is a case-insensitive index of header names to column positions.
type Header struct {
	index map[string]int
}

func NewHeader(cells []string) Header {
	h := Header{index: make(map[string]int, len(cells))}
	for i, c := range cells {
		k := normalizeHeader(c)
		if k == "" {
			continue
		}
		if _, dup := h.index[k]; dup {
			continue
		}
		h.index[k] = i
	}
	return h
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(s, "\ufeff")))
}

// Resolve returns the column of the first candidate present in the header,
// or -1 when none is.
func (h Header) Resolve(candidates ...string) int {
	for _, c := range candidates {
		if i, ok := h.index[normalizeHeader(c)]; ok {
			return i
		}
	}
	return -1
}

// Columns holds the resolved position of every field found in a header.
type Columns map[Field]int

// Resolve binds the table against a header once per file. Fields whose
// candidates are all absent are left out and read as 0.
func (t ColumnTable) Resolve(h Header) (Columns, []Field) {
	cols := Columns{}
	var missing []Field
	for f := FieldShow; f <= FieldCTR; f++ {
		cands, ok := t[f]
		if !ok {
			continue
		}
		if i := h.Resolve(cands...); i >= 0 {
			cols[f] = i
		} else {
			missing = append(missing, f)
		}
	}
	return cols, missing
}

// Row is one data line viewed through resolved columns.
type Row struct {
	cells []string
	cols  Columns
}

func (r Row) Text(f Field) string {
	i, ok := r.cols[f]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return r.cells[i]
}

func (r Row) Number(f Field) float64 {
	return CleanNumber(r.Text(f))
}
