package utilities

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the only accepted calendar date format, both on input and output.
const DateLayout = "2006-01-02"

var ErrMalformedDate = errors.New("malformed date")

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time. There is no
// fallback layout.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	return t, nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

const secondsPerDay = 24 * 60 * 60

// DaysBetween returns the whole days elapsed from start to end, floored.
// It works on Unix seconds, so spans beyond the range of time.Duration
// (about 292 years) stay exact.
func DaysBetween(start, end time.Time) int {
	secs := end.Unix() - start.Unix()
	days := secs / secondsPerDay
	if secs%secondsPerDay != 0 && secs < 0 {
		days--
	}
	return int(days)
}
