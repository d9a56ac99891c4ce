package core

import "time"

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDay returns day limited to the last valid day of the month, so a
// day-31 template lands on day 30 of a 30-day month and day 28/29 in
// February.
func ClampDay(year int, month time.Month, day int) int {
	if last := DaysInMonth(year, month); day > last {
		return last
	}
	return day
}

// MonthWindow returns the inclusive [first, last] day bounds of the month
// containing t, at midnight UTC.
func MonthWindow(t time.Time) (Date, Date) {
	year, month, _ := t.Date()
	first := NewDate(year, int(month), 1)
	last := NewDate(year, int(month), DaysInMonth(year, month))
	return first, last
}

// AddMonthsClamped shifts d forward n calendar months, clamping the day to
// the last valid day of the target month. Unlike time.Time.AddDate it never
// rolls over: Jan 31 + 1 month is Feb 28/29, not Mar 2/3.
func AddMonthsClamped(d Date, n int) Date {
	year, month, day := d.Date()
	target := time.Date(year, month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	ty, tm, _ := target.Date()
	return NewDate(ty, int(tm), ClampDay(ty, tm, day))
}
