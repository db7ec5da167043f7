package helpers

import "time"

// DateLayout is the canonical calendar-date format used for registration dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date. The boolean reports whether the
// input was a valid date; callers treat an invalid bound as absent.
func ParseDate(dateStr string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders a time as a YYYY-MM-DD calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
