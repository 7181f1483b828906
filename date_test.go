package ledger

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestParseDate(t *testing.T) {
	now := time.Date(2025, time.August, 14, 15, 30, 0, 0, time.UTC) // a Thursday

	tests := []struct {
		input    string
		expected time.Time
		err      bool
	}{
		{"", date(2025, 8, 14), false},
		{"today", date(2025, 8, 14), false},
		{"yesterday", date(2025, 8, 13), false},

		// Standard ISO Format
		{"2025-01-15", date(2025, 1, 15), false},
		{"2025-7-1", date(2025, 7, 1), false},
		{"2025-01-15T10:00:00Z", time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC), false},
		{"invalid-date", time.Time{}, true},

		// Relative Duration Format
		{"-1d", date(2025, 8, 13), false},
		{"+1d", date(2025, 8, 15), false},
		{"1d", time.Time{}, true},
		{"-0d", date(2025, 8, 14), false},
		{"-2w", date(2025, 7, 31), false},
		{"+1m", date(2025, 9, 14), false},
		{"-3q", date(2024, 11, 14), false},
		{"-1y", date(2024, 8, 14), false},

		// [MM-]DD Format
		{"27", date(2025, 8, 27), false},
		{"8-0", date(2025, 7, 31), false},
		{"0", date(2025, 7, 31), false},
		{"1-15", date(2025, 1, 15), false},
		{"1-0", date(2024, 12, 31), false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input, now)
			if tt.err {
				if err == nil {
					t.Errorf("ParseDate(%q) = %v, want an error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.input, err)
			}
			if !got.Equal(tt.expected) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestPeriod_Range(t *testing.T) {
	on := time.Date(2025, time.August, 14, 15, 30, 0, 0, time.UTC) // a Thursday
	tests := []struct {
		period   Period
		from, to time.Time
	}{
		{Day, date(2025, 8, 14), date(2025, 8, 15)},
		{Week, date(2025, 8, 11), date(2025, 8, 18)},
		{Month, date(2025, 8, 1), date(2025, 9, 1)},
		{Quarter, date(2025, 7, 1), date(2025, 10, 1)},
		{Year, date(2025, 1, 1), date(2026, 1, 1)},
	}
	for _, tt := range tests {
		from, to := tt.period.Range(on)
		if !from.Equal(tt.from) || !to.Equal(tt.to) {
			t.Errorf("%v.Range() = [%v, %v), want [%v, %v)", tt.period, from, to, tt.from, tt.to)
		}
	}

	// a Sunday belongs to the week that started on the previous Monday.
	from, _ := Week.Range(date(2025, 8, 17))
	if !from.Equal(date(2025, 8, 11)) {
		t.Errorf("week of Sunday starts on %v, want 2025-08-11", from)
	}
}

func TestParsePeriod(t *testing.T) {
	for _, p := range []Period{Day, Week, Month, Quarter, Year} {
		got, err := ParsePeriod(p.String())
		if err != nil || got != p {
			t.Errorf("ParsePeriod(%q) = %v, %v", p.String(), got, err)
		}
	}
	if _, err := ParsePeriod("fortnight"); !errors.Is(err, ErrInvalid) {
		t.Errorf("ParsePeriod(fortnight) error = %v, want ErrInvalid", err)
	}
}
