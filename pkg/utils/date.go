package utils

import "time"

// TruncateToHour truncates t to the start of its hour in UTC.
func TruncateToHour(t time.Time) time.Time {
	return t.UTC().Truncate(time.Hour)
}

// HourWindow returns the half-open 1-hour window [start, end) containing t.
func HourWindow(t time.Time) (time.Time, time.Time) {
	start := TruncateToHour(t)
	return start, start.Add(time.Hour)
}

// StartOfDay returns midnight UTC of the day containing t.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
