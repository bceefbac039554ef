package dataset

import (
	"math"
	"strconv"
	"strings"
)

var numberCleaner = strings.NewReplacer(",", "", "%", "")

// CleanNumber coerces an export cell such as "1,234.50" or "12.5%" to a
// float. Empty or unparsable input is 0.
func CleanNumber(s string) float64 {
	s = strings.TrimSpace(numberCleaner.Replace(s))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func nonNegative(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}
