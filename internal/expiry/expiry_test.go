package expiry

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextExpiryIsAlwaysThursday(t *testing.T) {
	// Walk every day across several years.
	day := date(2024, time.January, 1)
	end := date(2027, time.January, 1)
	for day.Before(end) {
		got := NextExpiry(day)
		if got.Weekday() != time.Thursday {
			t.Fatalf("NextExpiry(%s) = %s, a %s, want a Thursday",
				day.Format("2006-01-02"), got.Format("2006-01-02"), got.Weekday())
		}
		day = day.AddDate(0, 0, 1)
	}
}

func TestNextExpiryAlwaysJumpsToNextMonth(t *testing.T) {
	day := date(2025, time.January, 1)
	end := date(2026, time.January, 1)
	for day.Before(end) {
		got := NextExpiry(day)
		wantMonth := date(day.Year(), day.Month(), 1).AddDate(0, 0, 31).Month()
		if got.Month() != wantMonth {
			t.Fatalf("NextExpiry(%s) = %s, want month %s",
				day.Format("2006-01-02"), got.Format("2006-01-02"), wantMonth)
		}
		// Even a Thursday late in the month still jumps ahead.
		if got.Month() == day.Month() && got.Year() == day.Year() {
			t.Fatalf("NextExpiry(%s) stayed in the current month", day.Format("2006-01-02"))
		}
		day = day.AddDate(0, 0, 1)
	}
}

func TestNextExpiryKnownDates(t *testing.T) {
	tests := []struct {
		now  time.Time
		want time.Time
	}{
		// February 2025's fourth Thursday is also its last.
		{date(2025, time.January, 15), date(2025, time.February, 27)},
		// May 2025 has five Thursdays; the carried-over arithmetic picks
		// the fourth (22nd), not the last (29th).
		{date(2025, time.April, 10), date(2025, time.May, 22)},
		// Year rollover.
		{date(2025, time.December, 5), date(2026, time.January, 22)},
	}

	for _, tt := range tests {
		got := NextExpiry(tt.now)
		if !got.Equal(tt.want) {
			t.Errorf("NextExpiry(%s) = %s, want %s",
				tt.now.Format("2006-01-02"), got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
		}
	}
}

func TestLastThursday(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2025, time.February, 27},
		{2025, time.May, 29},
		{2026, time.January, 29},
		{2024, time.February, 29}, // leap year, last day is a Thursday
	}

	for _, tt := range tests {
		got := LastThursday(tt.year, tt.month)
		if got.Weekday() != time.Thursday {
			t.Errorf("LastThursday(%d, %s) = %s, not a Thursday", tt.year, tt.month, got.Format("2006-01-02"))
		}
		if got.Day() != tt.want {
			t.Errorf("LastThursday(%d, %s) = day %d, want %d", tt.year, tt.month, got.Day(), tt.want)
		}
	}
}
