package metrics

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownSortKey is returned by ParseSortKey for unsupported keys.
var ErrUnknownSortKey = errors.New("unknown sort key")

// SortKey selects the metric groups are ranked by.
type SortKey string

const (
	SortByAmount     SortKey = "amount"
	SortBySales      SortKey = "sales"
	SortByConverted  SortKey = "converted"
	SortByConversion SortKey = "conversion"
	SortByQty        SortKey = "qty"
	SortByATV        SortKey = "atv"
	SortByLabel      SortKey = "label"
)

// SortKeys lists the supported keys.
var SortKeys = []SortKey{SortByAmount, SortBySales, SortByConverted, SortByConversion, SortByQty, SortByATV, SortByLabel}

// ParseSortKey resolves a user-supplied key. Blank means amount.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortByAmount, nil
	}
	for _, k := range SortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
}

// TotalLabel labels the grand-total row.
const TotalLabel = "Total"

// Row is a ranked group with its derived metrics.
type Row struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	GroupAccumulator
	DerivedMetrics
}

// LabelFunc maps a group key to its display label.
type LabelFunc func(key string) string

// RankAndTotal derives every group, ranks the rows by sortBy and builds the
// grand-total row. Ties keep first-seen order. Totals re-derive rates from the
// summed numerators and denominators instead of averaging per-group rates.
func RankAndTotal(groups *Groups, sortBy SortKey, label LabelFunc) ([]Row, Row) {
	totalAcc := GroupAccumulator{}
	if groups == nil {
		return []Row{}, Row{Label: TotalLabel, DerivedMetrics: Derive(totalAcc)}
	}

	rows := make([]Row, 0, groups.Len())
	for _, key := range groups.keys {
		acc := *groups.byKey[key]
		totalAcc.merge(acc)

		l := key
		if label != nil {
			if s := label(key); s != "" {
				l = s
			}
		}
		rows = append(rows, Row{
			Label:            l,
			GroupAccumulator: acc,
			DerivedMetrics:   Derive(acc),
		})
	}

	SortRows(rows, sortBy)

	totals := Row{
		Label:            TotalLabel,
		GroupAccumulator: totalAcc,
		DerivedMetrics:   Derive(totalAcc),
	}
	return rows, totals
}

// SortRows stably re-sorts rows and rewrites their 1-based ranks.
func SortRows(rows []Row, sortBy SortKey) {
	slices.SortStableFunc(rows, func(a, b Row) int {
		switch sortBy {
		case SortBySales:
			return cmp.Compare(b.SalesCount, a.SalesCount)
		case SortByConverted:
			return cmp.Compare(b.ConvertedCount, a.ConvertedCount)
		case SortByConversion:
			return cmp.Compare(b.ConversionRate, a.ConversionRate)
		case SortByQty:
			return cmp.Compare(b.QtySold, a.QtySold)
		case SortByATV:
			return cmp.Compare(b.AvgTransactionValue, a.AvgTransactionValue)
		case SortByLabel:
			return cmp.Compare(strings.ToLower(a.Label), strings.ToLower(b.Label))
		default:
			return cmp.Compare(b.Amount, a.Amount)
		}
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
}
