package domain

import "time"

// DateLayout is the calendar date format used in fixtures and reports
const DateLayout = "2006-01-02"

// AgeOn returns the number of whole years between birth and end.
// Partial years are truncated, so the anniversary must have been reached.
// A negative span yields a negative count of whole years.
func AgeOn(birth, end time.Time) int {
	if end.Before(birth) {
		return -AgeOn(end, birth)
	}

	years := end.Year() - birth.Year()
	if end.Month() < birth.Month() ||
		(end.Month() == birth.Month() && end.Day() < birth.Day()) {
		years--
	}
	return years
}

// ParseDate parses a YYYY-MM-DD calendar date in UTC
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Date builds a UTC calendar date
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
