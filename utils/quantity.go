package utils

import (
	"strconv"
	"strings"
)

const maxRentalDays = 3650

// CoerceDays turns free-form rental-days input into a usable day count.
// Leading digits are parsed the way a browser number field is read
// ("5", " 7 days", "3.9" -> 5, 7, 3); anything non-numeric or below 1 becomes 1.
func CoerceDays(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 1
	}

	neg := false
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		neg = true
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 || neg {
		return 1
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil || n > maxRentalDays {
		// Out of int range or absurdly long rentals are capped.
		return maxRentalDays
	}
	return ClampDays(n)
}

// ClampDays enforces the minimum of one rental day.
func ClampDays(days int) int {
	if days < 1 {
		return 1
	}
	return days
}
