package util

import "time"

// MonthStart returns midnight UTC on the first day of t's calendar month
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// AddMonths returns the first day of the month n calendar months after the
// month containing t. n may be negative.
func AddMonths(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
}

// MonthLabel formats t's calendar month as YYYY-MM
func MonthLabel(t time.Time) string {
	return t.Format("2006-01")
}

// TrailingMonths returns the first days of the n calendar months ending with
// the month containing now, in ascending chronological order.
func TrailingMonths(now time.Time, n int) []time.Time {
	months := make([]time.Time, 0, n)
	for i := n - 1; i >= 0; i-- {
		months = append(months, AddMonths(now, -i))
	}
	return months
}

// SameCalendarMonth reports whether a and b fall in the same calendar month
func SameCalendarMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
