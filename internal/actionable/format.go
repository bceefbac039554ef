package actionable

import (
	"strings"

	"github.com/shopspring/decimal"
)

var lakh = decimal.New(1, 5)

// lakhs renders a rupee amount as "₹12.3L".
func lakhs(v float64, places int32) string {
	return "₹" + decimal.NewFromFloat(v).Div(lakh).StringFixed(places) + "L"
}

func rupees(v float64) string {
	return "₹" + decimal.NewFromFloat(v).StringFixed(0)
}

func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// share is part/whole as a percentage, 0 when whole is 0.
func share(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func joinNames(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

func firstN[T any](s []T, n int) []T {
	if len(s) < n {
		return s
	}
	return s[:n]
}
