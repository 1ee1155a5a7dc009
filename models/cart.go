package models

import (
	"encoding/json"
	"math"
	"strconv"
)

// CartVersion is the layout version written with every stored cart.
const CartVersion = 1

// Cart is the in-progress rental selection of one browser session
// Example stored value:
// {
//   "version": 1,
//   "orderedItems": [{"key": "MIC01", "qty": 2}],
//   "days": 3,
//   "startingDate": "2024-05-01",
//   "endingDate": "2024-05-03"
// }
type Cart struct {
	Version      int        `json:"version"`
	OrderedItems []CartLine `json:"orderedItems"`
	Days         int        `json:"days"`
	StartingDate string     `json:"startingDate"`
	EndingDate   string     `json:"endingDate"`
}

// CartLine is one product in the cart; Key references a product of the catalog API
type CartLine struct {
	Key string `json:"key"`
	Qty int    `json:"qty"`
}

// Find returns the index of the line for key, or -1
func (c *Cart) Find(key string) int {
	for i, line := range c.OrderedItems {
		if line.Key == key {
			return i
		}
	}
	return -1
}

// Keys lists the product keys in cart order
func (c *Cart) Keys() []string {
	keys := make([]string, 0, len(c.OrderedItems))
	for _, line := range c.OrderedItems {
		keys = append(keys, line.Key)
	}
	return keys
}

// Clone returns a copy that shares no memory with c
func (c *Cart) Clone() *Cart {
	out := *c
	out.OrderedItems = append([]CartLine(nil), c.OrderedItems...)
	if out.OrderedItems == nil {
		out.OrderedItems = []CartLine{}
	}
	return &out
}

// AddToCartRequest represents the request body for adding a product
// Example: {"key": "MIC01", "qty": 2}
type AddToCartRequest struct {
	Key string `json:"key"`
	Qty int    `json:"qty"`
}

// AdjustQuantityRequest represents the request body for the +/- quantity control
// Example: {"delta": -1}
type AdjustQuantityRequest struct {
	Delta int `json:"delta"`
}

// UpdateDaysRequest represents the request body for the rental length.
// Days comes from a number input and may arrive as a number or a string.
// Example: {"days": 3} or {"days": "3"}
type UpdateDaysRequest struct {
	Days json.RawMessage `json:"days"`
}

// RawDays returns the days value as text. Strings are returned unquoted;
// numbers, including exponent forms like 1e2, are truncated to an integer.
func (r UpdateDaysRequest) RawDays() string {
	var s string
	if err := json.Unmarshal(r.Days, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(r.Days, &n); err == nil {
		if f, err := strconv.ParseFloat(n.String(), 64); err == nil {
			return strconv.FormatFloat(math.Trunc(f), 'f', 0, 64)
		}
	}
	return string(r.Days)
}

// UpdateStartDateRequest represents the request body for moving the rental start
// Example: {"startingDate": "2024-05-01"}
type UpdateStartDateRequest struct {
	StartingDate string `json:"startingDate"`
}

// CartCountResponse is the header badge payload: number of distinct lines
type CartCountResponse struct {
	Count int `json:"count"`
}
