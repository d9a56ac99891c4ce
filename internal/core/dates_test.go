package core

import (
	"testing"
	"time"
)

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.January, 31},
		{2024, time.February, 29}, // leap year
		{2025, time.February, 28},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}
	for _, tc := range cases {
		if got := DaysInMonth(tc.year, tc.month); got != tc.want {
			t.Fatalf("%d-%d expected %d days, got %d", tc.year, tc.month, tc.want, got)
		}
	}
}

func TestClampDay(t *testing.T) {
	if got := ClampDay(2024, time.April, 31); got != 30 {
		t.Fatalf("expected 30, got %d", got)
	}
	if got := ClampDay(2025, time.February, 31); got != 28 {
		t.Fatalf("expected 28, got %d", got)
	}
	if got := ClampDay(2024, time.January, 15); got != 15 {
		t.Fatalf("expected 15, got %d", got)
	}
}

func TestMonthWindow(t *testing.T) {
	now := time.Date(2024, time.February, 10, 13, 45, 0, 0, time.UTC)
	first, last := MonthWindow(now)
	if first != NewDate(2024, 2, 1) {
		t.Fatalf("unexpected first day %v", first)
	}
	if last != NewDate(2024, 2, 29) {
		t.Fatalf("unexpected last day %v", last)
	}
}

func TestAddMonthsClamped(t *testing.T) {
	cases := []struct {
		start Date
		n     int
		want  Date
	}{
		{NewDate(2024, 1, 15), 1, NewDate(2024, 2, 15)},
		{NewDate(2024, 1, 31), 1, NewDate(2024, 2, 29)}, // clamp, no rollover
		{NewDate(2025, 1, 31), 1, NewDate(2025, 2, 28)},
		{NewDate(2024, 1, 31), 3, NewDate(2024, 4, 30)},
		{NewDate(2024, 11, 30), 2, NewDate(2025, 1, 30)}, // year boundary
		{NewDate(2024, 1, 15), 0, NewDate(2024, 1, 15)},
	}
	for i, tc := range cases {
		if got := AddMonthsClamped(tc.start, tc.n); got != tc.want {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, got)
		}
	}
}
