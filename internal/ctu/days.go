package ctu

import (
	"fmt"
	"time"

	"cloudeng.io/datetime"
)

// CalendarDay returns the UTC calendar date of t.
func CalendarDay(t time.Time) datetime.CalendarDate {
	u := t.UTC()
	return datetime.NewCalendarDate(u.Year(), datetime.Month(u.Month()), u.Day())
}

// DayStart returns 00:00 UTC of d.
func DayStart(d datetime.CalendarDate) time.Time {
	return time.Date(d.Year(), time.Month(d.Month()), d.Day(), 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days after d.
func AddDays(d datetime.CalendarDate, n int) datetime.CalendarDate {
	return CalendarDay(DayStart(d).AddDate(0, 0, n))
}

// FormatDay formats d as YYYY-MM-DD.
func FormatDay(d datetime.CalendarDate) string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year(), d.Month(), d.Day())
}

// ParseDay parses a YYYY-MM-DD date.
func ParseDay(s string) (datetime.CalendarDate, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return datetime.CalendarDate(0), fmt.Errorf("parse reference day: %w", err)
	}
	return CalendarDay(t), nil
}
