package metrics

import (
	"errors"
	"testing"
	"time"
)

func TestReportQuery_Options(t *testing.T) {
	q := ReportQuery{
		Dimension:      "TSM",
		From:           "2024-01-01",
		To:             "2024-01-31",
		DateField:      "Date_Updated",
		Search:         "  acme ",
		SortBy:         "conversion",
		ExcludeRemarks: []string{"PO Received", " ", ""},
	}

	opts, err := q.Options(time.UTC)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if opts.Dimension != DimensionManager {
		t.Errorf("Expected manager dimension, got %s", opts.Dimension)
	}
	if opts.SortBy != SortByConversion {
		t.Errorf("Expected conversion sort, got %s", opts.SortBy)
	}
	if opts.DateField != "date_updated" {
		t.Errorf("Expected date_updated, got %s", opts.DateField)
	}
	if opts.Search != "acme" {
		t.Errorf("Expected trimmed search, got %q", opts.Search)
	}
	if len(opts.ExcludeRemarks) != 1 || opts.ExcludeRemarks[0] != "PO Received" {
		t.Errorf("Expected blank remarks dropped, got %v", opts.ExcludeRemarks)
	}
	if opts.Range == nil || opts.Range.From == nil || opts.Range.To == nil {
		t.Errorf("Expected closed range, got %+v", opts.Range)
	}
}

func TestReportQuery_Defaults(t *testing.T) {
	opts, err := ReportQuery{}.Options(nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if opts.Dimension != DimensionAgent || opts.SortBy != SortByAmount || opts.DateField != DefaultDateField {
		t.Errorf("Unexpected defaults: %+v", opts)
	}
	if opts.Range != nil {
		t.Errorf("Expected no range, got %+v", opts.Range)
	}
}

func TestReportQuery_Errors(t *testing.T) {
	tests := []struct {
		name string
		q    ReportQuery
		want error
	}{
		{"dimension", ReportQuery{Dimension: "region"}, ErrUnknownDimension},
		{"sort", ReportQuery{SortBy: "profit"}, ErrUnknownSortKey},
		{"date", ReportQuery{From: "last week"}, ErrInvalidDate},
		{"field", ReportQuery{DateField: "remarks"}, ErrUnknownDateField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.q.Options(time.UTC); !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}
