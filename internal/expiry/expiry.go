// Package expiry computes the monthly options expiry date.
package expiry

import "time"

// NextExpiry returns the expiry date for monthly options, computed as
// the fourth Thursday of the month after now.
//
// Note: this always jumps to the following month, never the current
// month's expiry, and in months with five Thursdays it lands on the
// fourth rather than the last. Both quirks are carried over deliberately
// from the calculation this replaces; callers relying on "last Thursday
// of the current month" semantics should not use this function.
func NextExpiry(now time.Time) time.Time {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	jumped := firstOfMonth.AddDate(0, 0, 31)
	firstOfNext := time.Date(jumped.Year(), jumped.Month(), 1, 0, 0, 0, 0, now.Location())

	// Monday-based weekday, so Thursday is 3.
	w := (int(firstOfNext.Weekday()) + 6) % 7
	offset := ((3-w)%7+7)%7 + 21
	return firstOfNext.AddDate(0, 0, offset)
}

// LastThursday returns the last Thursday of the given month.
func LastThursday(year int, month time.Month) time.Time {
	// Day 0 of the next month is the last day of this one.
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	back := (int(last.Weekday()) - int(time.Thursday) + 7) % 7
	return last.AddDate(0, 0, -back)
}
