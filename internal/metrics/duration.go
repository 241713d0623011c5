package metrics

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// MinutesBetween returns the elapsed whole minutes from start to end, rounded.
// Missing or unparseable input and negative spans yield 0.
func MinutesBetween(start, end string) int64 {
	d, ok := elapsed(start, end)
	if !ok {
		return 0
	}
	return int64(math.Round(float64(d.Milliseconds()) / 60000))
}

// HumanizeDuration renders the span between two timestamps as
// "1 day, 2 hours, 5 minutes, 1 second", listing only non-zero units.
// Display only: aggregation uses MinutesBetween.
func HumanizeDuration(start, end string) string {
	d, _ := elapsed(start, end)
	return Humanize(d)
}

// Humanize renders d the same way as HumanizeDuration.
func Humanize(d time.Duration) string {
	if d < time.Second {
		return "less than a second"
	}

	total := int64(d / time.Second)
	units := []struct {
		name string
		size int64
	}{
		{"day", 86400},
		{"hour", 3600},
		{"minute", 60},
		{"second", 1},
	}

	var parts []string
	for _, u := range units {
		n := total / u.size
		total %= u.size
		if n == 0 {
			continue
		}
		label := u.name
		if n != 1 {
			label += "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s", n, label))
	}
	return strings.Join(parts, ", ")
}

func elapsed(start, end string) (time.Duration, bool) {
	s, ok := ParseTimestamp(start, time.UTC)
	if !ok {
		return 0, false
	}
	e, ok := ParseTimestamp(end, time.UTC)
	if !ok {
		return 0, false
	}
	d := e.Sub(s)
	if d < 0 {
		return 0, false
	}
	return d, true
}
