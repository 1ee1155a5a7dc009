package utils

import (
	"fmt"
	"time"
)

// DateLayout is the only layout used to serialize rental dates.
const DateLayout = "2006-01-02"

// FormatDate returns the local calendar date of t as YYYY-MM-DD.
// Every rental date that is stored or compared goes through this function.
func FormatDate(t time.Time) string {
	return t.In(time.Local).Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string as midnight of that calendar day in local time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Today returns today's date string according to now.
func Today(now func() time.Time) string {
	if now == nil {
		now = time.Now
	}
	return FormatDate(now())
}

// EndingDate derives the last rental day: start + (days - 1) calendar days.
// days below 1 are treated as 1.
func EndingDate(start string, days int) (string, error) {
	startDate, err := ParseDate(start)
	if err != nil {
		return "", err
	}
	if days < 1 {
		days = 1
	}
	return FormatDate(startDate.AddDate(0, 0, days-1)), nil
}
