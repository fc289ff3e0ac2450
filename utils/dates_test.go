package utils

import (
	"testing"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input    string
		expected string // "" means nil
	}{
		{"15/03/2024", "2024-03-15"},
		{"15/03/2024 10:30:00", "2024-03-15"},
		{"March 15, 2024", "2024-03-15"},
		{"2024-03-15", "2024-03-15"},
		{"2026-11-20T23:59:59Z", "2026-11-20"},
		{"01-Mar-2020", "2020-03-01"},
		{"2024.03.15", "2024-03-15"},
		// Both components fit a month: day-first is assumed.
		{"03/04/2024", "2024-04-03"},
		// First component fits a month but the second does not.
		{"03/15/2024", "2024-03-15"},
		{"before: March 15, 2024", "2024-03-15"},
		{"not a date", ""},
		{"", ""},
		{"   ", ""},
		{"99/99/2024", ""},
	}

	for _, test := range tests {
		got := ParseDate(test.input)
		if test.expected == "" {
			if got != nil {
				t.Errorf("ParseDate(%q) = %v; want nil", test.input, got)
			}
			continue
		}
		if got == nil {
			t.Errorf("ParseDate(%q) = nil; want %s", test.input, test.expected)
			continue
		}
		if got.Format("2006-01-02") != test.expected {
			t.Errorf("ParseDate(%q) = %s; want %s", test.input, got.Format("2006-01-02"), test.expected)
		}
	}
}

func TestParseDateIdempotent(t *testing.T) {
	first := ParseDate("15/03/2024")
	second := ParseDate("15/03/2024")
	if first == nil || second == nil || !first.Equal(second.Time) {
		t.Errorf("repeated parses differ: %v vs %v", first, second)
	}
}
