package util

import (
	"testing"
	"time"
)

func TestMonthStart(t *testing.T) {
	got := MonthStart(time.Date(2026, 3, 15, 18, 30, 0, 0, time.UTC))
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestAddMonths(t *testing.T) {
	base := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		n    int
		want time.Time
	}{
		{0, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{1, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
		{-2, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{-3, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)},
		{10, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got := AddMonths(base, tc.n)
		if !got.Equal(tc.want) {
			t.Errorf("Expected AddMonths(%d) = %s, got %s", tc.n, tc.want, got)
		}
	}
}

func TestAddMonths_FromLongMonthEnd(t *testing.T) {
	// The day of month must not leak into the result
	got := AddMonths(time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), -1)
	want := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestMonthLabel(t *testing.T) {
	got := MonthLabel(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))
	if got != "2026-03" {
		t.Errorf("Expected 2026-03, got %s", got)
	}
}

func TestTrailingMonths(t *testing.T) {
	now := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	months := TrailingMonths(now, 4)
	if len(months) != 4 {
		t.Fatalf("Expected 4 months, got %d", len(months))
	}

	want := []string{"2025-11", "2025-12", "2026-01", "2026-02"}
	for i, label := range want {
		if MonthLabel(months[i]) != label {
			t.Errorf("Expected %s at index %d, got %s", label, i, MonthLabel(months[i]))
		}
	}
}

func TestSameCalendarMonth(t *testing.T) {
	a := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2026, 3, 31, 23, 59, 0, 0, time.UTC)
	if !SameCalendarMonth(a, b) {
		t.Error("Expected the same calendar month")
	}

	c := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	if SameCalendarMonth(a, c) {
		t.Error("Expected different years to be different months")
	}
}
