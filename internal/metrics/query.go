package metrics

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// ErrUnknownDateField is returned for a date filter on a field that is not a timestamp.
var ErrUnknownDateField = errors.New("unknown date field")

// DateFields lists the activity timestamps a report can be filtered on.
var DateFields = []string{
	"date_created",
	"date_updated",
	"start_date",
	"end_date",
	"ticket_received",
	"ticket_endorsed",
}

// ReportQuery is the textual form of ReportOptions, as typed on the command
// line or sent by a tool call.
type ReportQuery struct {
	Dimension      string
	From           string
	To             string
	DateField      string
	Search         string
	SortBy         string
	ExcludeRemarks []string
}

// Options validates q and resolves it. Dates are read in loc.
func (q ReportQuery) Options(loc *time.Location) (ReportOptions, error) {
	dim, err := ParseDimension(q.Dimension)
	if err != nil {
		return ReportOptions{}, err
	}
	sortBy, err := ParseSortKey(q.SortBy)
	if err != nil {
		return ReportOptions{}, err
	}
	rng, err := ParseDateRange(q.From, q.To, loc)
	if err != nil {
		return ReportOptions{}, err
	}

	field := strings.ToLower(strings.TrimSpace(q.DateField))
	if field == "" {
		field = DefaultDateField
	}
	if !slices.Contains(DateFields, field) {
		return ReportOptions{}, fmt.Errorf("%w: %q", ErrUnknownDateField, q.DateField)
	}

	var remarks []string
	for _, r := range q.ExcludeRemarks {
		if strings.TrimSpace(r) != "" {
			remarks = append(remarks, r)
		}
	}

	return ReportOptions{
		Dimension:      dim,
		Range:          rng,
		DateField:      field,
		Search:         strings.TrimSpace(q.Search),
		ExcludeRemarks: remarks,
		SortBy:         sortBy,
	}, nil
}
