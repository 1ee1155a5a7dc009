package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Product is the subset of the catalog API product record the cart needs
// Example response of GET /api/products/MIC01:
// {
//   "key": "MIC01",
//   "name": "Shure SM58",
//   "price": 1500,
//   "category": "audio",
//   "description": "Dynamic vocal microphone",
//   "image": ["https://cdn.example.com/mic01.jpg"],
//   "availability": true
// }
type Product struct {
	Key          string   `json:"key"`
	Name         string   `json:"name"`
	Price        Price    `json:"price"`
	Category     string   `json:"category,omitempty"`
	Description  string   `json:"description,omitempty"`
	Dimensions   string   `json:"dimensions,omitempty"`
	Image        []string `json:"image"`
	Availability bool     `json:"availability"`
}

// FirstImage returns the product's cover image URL, or ""
func (p *Product) FirstImage() string {
	if len(p.Image) == 0 {
		return ""
	}
	return p.Image[0]
}

// Price is a daily rental price. The catalog API sends it either as a JSON
// number or as a string. Strings are read up to the first character that
// cannot continue a number ("1500 LKR" is 1500); no number at all counts as 0.
type Price float64

// UnmarshalJSON accepts 1500, 1500.5, "1500", "1500.5" and "1500 LKR"
func (p *Price) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*p = 0
		return nil
	}

	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid price: %w", err)
		}
		*p = Price(parseFloatPrefix(s))
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("invalid price: %w", err)
	}
	*p = Price(f)
	return nil
}

// parseFloatPrefix reads the longest leading decimal number of s, after
// leading whitespace, and returns 0 when there is none.
func parseFloatPrefix(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\r")
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	end := i
	// An exponent only counts when digits follow it.
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			end = j
		}
	}

	// The prefix is well-formed, so only overflow can fail; f is then ±Inf.
	f, _ := strconv.ParseFloat(s[:end], 64)
	return f
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
