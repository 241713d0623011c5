package metrics

import (
	"testing"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{"Empty", "", 0},
		{"Whitespace", "   ", 0},
		{"Integer", "1000", 1000},
		{"Decimal", "1234.56", 1234.56},
		{"Padded", " 42 ", 42},
		{"ThousandsSeparator", "1,500.25", 1500.25},
		{"Negative", "-10", -10},
		{"Garbage", "abc", 0},
		{"NaN", "NaN", 0},
		{"Infinity", "Inf", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseNumber(tt.input); got != tt.expected {
				t.Errorf("ParseNumber(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
		want  string
	}{
		{"2024-01-02T10:00:00", true, "2024-01-02T10:00:00Z"},
		{"2024-01-02T10:00:00.123", true, "2024-01-02T10:00:00.123Z"},
		{"2024-01-02T10:00:00Z", true, "2024-01-02T10:00:00Z"},
		{"2024-01-02T10:00:00+08:00", true, "2024-01-02T02:00:00Z"},
		{"2024-01-02 10:00:00", true, "2024-01-02T10:00:00Z"},
		{"2024-01-02 10:00:00+00", true, "2024-01-02T10:00:00Z"},
		{"2024-01-02", true, "2024-01-02T00:00:00Z"},
		{"", false, ""},
		{"yesterday", false, ""},
		{"2024-13-45", false, ""},
	}

	for _, tt := range tests {
		got, ok := ParseTimestamp(tt.input, nil)
		if ok != tt.ok {
			t.Errorf("ParseTimestamp(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			continue
		}
		if ok && got.UTC().Format("2006-01-02T15:04:05.999Z07:00") != tt.want {
			t.Errorf("ParseTimestamp(%q) = %s, want %s", tt.input, got.UTC().Format("2006-01-02T15:04:05.999Z07:00"), tt.want)
		}
	}
}
