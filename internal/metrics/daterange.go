package metrics

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDate is returned by ParseDateRange for bounds it cannot read.
var ErrInvalidDate = errors.New("invalid date")

// DateRange is an inclusive, day-level range. Either bound may be nil (open-ended).
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// NewDateRange builds a range from optional bounds. Zero times are treated as
// absent; a range with no bounds at all is returned as nil (no filter).
func NewDateRange(from, to time.Time) *DateRange {
	if from.IsZero() && to.IsZero() {
		return nil
	}
	r := &DateRange{}
	if !from.IsZero() {
		f := from
		r.From = &f
	}
	if !to.IsZero() {
		t := to
		r.To = &t
	}
	return r
}

// ParseDateRange reads user-supplied bounds (YYYY-MM-DD or a full timestamp) in loc.
// Blank bounds are open; two blank bounds mean no filter (nil).
func ParseDateRange(from, to string, loc *time.Location) (*DateRange, error) {
	if loc == nil {
		loc = time.UTC
	}
	parse := func(name, s string) (time.Time, error) {
		if strings.TrimSpace(s) == "" {
			return time.Time{}, nil
		}
		t, ok := ParseTimestamp(s, loc)
		if !ok {
			return time.Time{}, fmt.Errorf("%w: %s %q (want YYYY-MM-DD)", ErrInvalidDate, name, s)
		}
		return t.In(loc), nil
	}

	f, err := parse("from", from)
	if err != nil {
		return nil, err
	}
	t, err := parse("to", to)
	if err != nil {
		return nil, err
	}
	if !f.IsZero() && !t.IsZero() && StartOfDay(f).After(EndOfDay(t)) {
		return nil, fmt.Errorf("%w: from %s is after to %s", ErrInvalidDate, f.Format(time.DateOnly), t.Format(time.DateOnly))
	}
	return NewDateRange(f, t), nil
}

// StartOfDay normalizes a timestamp to 00:00:00.000 of its calendar day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay normalizes a timestamp to 23:59:59.999 of its calendar day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// Location is the zone naive record timestamps are read in when tested against r.
func (r *DateRange) Location() *time.Location {
	switch {
	case r == nil:
		return time.UTC
	case r.From != nil:
		return r.From.Location()
	case r.To != nil:
		return r.To.Location()
	}
	return time.UTC
}

// Contains reports whether t falls inside the day-inclusive bounds.
func (r *DateRange) Contains(t time.Time) bool {
	if r == nil {
		return true
	}
	if r.From != nil && t.Before(StartOfDay(*r.From)) {
		return false
	}
	if r.To != nil && t.After(EndOfDay(*r.To)) {
		return false
	}
	return true
}

// InRange tests a record timestamp against r.
// A nil range always passes, whatever the timestamp looks like. With an active
// range, a missing or unparseable timestamp never passes.
func InRange(timestamp string, r *DateRange) bool {
	if r == nil {
		return true
	}
	t, ok := ParseTimestamp(timestamp, r.Location())
	if !ok {
		return false
	}
	return r.Contains(t)
}
