package metrics

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber parses a numeric-as-string field such as so_amount or qty_sold.
// Blank, malformed, NaN and infinite values yield 0. Thousands separators are ignored.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ratio divides num by den and returns 0 when den is 0.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// normalizeTag lower-cases and trims a classification string for comparison.
func normalizeTag(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
