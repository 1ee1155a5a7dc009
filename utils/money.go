package utils

import (
	"math"
	"strconv"
	"strings"
)

// CurrencyPrefix is prepended to every formatted amount.
const CurrencyPrefix = "Rs. "

// FormatRupees formats an amount like "Rs. 12,500" or "Rs. 1,250.5".
// Uses comma as thousands separator and at most two decimals.
func FormatRupees(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	cents := int64(math.Round(amount * 100))
	whole := cents / 100
	frac := cents % 100

	s := strconv.FormatInt(whole, 10)

	var b strings.Builder
	// Pre-allocate: digits + separators + prefix + decimals
	b.Grow(len(s) + len(s)/3 + len(CurrencyPrefix) + 4)
	if neg {
		b.WriteString("-")
	}
	b.WriteString(CurrencyPrefix)

	// Insert separators from the left.
	rem := len(s) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(s[:rem])
	for i := rem; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}

	if frac > 0 {
		decimals := strings.TrimRight(strconv.FormatInt(100+frac, 10)[1:], "0")
		b.WriteByte('.')
		b.WriteString(decimals)
	}

	return b.String()
}
