package models

// CartSummaryLine is one priced cart line
type CartSummaryLine struct {
	Key            string  `json:"key"`
	Name           string  `json:"name"`
	Category       string  `json:"category,omitempty"`
	Image          string  `json:"image,omitempty"`
	Qty            int     `json:"qty"`
	UnitPrice      float64 `json:"unitPrice"`
	LineTotal      float64 `json:"lineTotal"`
	UnitPriceLabel string  `json:"unitPriceLabel"`
	LineTotalLabel string  `json:"lineTotalLabel"`
}

// CartSummary is the priced view of a cart
// Example response:
// {
//   "lines": [
//     {
//       "key": "MIC01",
//       "name": "Shure SM58",
//       "qty": 2,
//       "unitPrice": 1500,
//       "lineTotal": 9000,
//       "unitPriceLabel": "Rs. 1,500",
//       "lineTotalLabel": "Rs. 9,000"
//     }
//   ],
//   "days": 3,
//   "startingDate": "2024-05-01",
//   "endingDate": "2024-05-03",
//   "subtotal": 9000,
//   "total": 9000,
//   "totalLabel": "Rs. 9,000",
//   "missingKeys": []
// }
type CartSummary struct {
	Lines        []CartSummaryLine `json:"lines"`
	Days         int               `json:"days"`
	StartingDate string            `json:"startingDate"`
	EndingDate   string            `json:"endingDate"`
	Subtotal     float64           `json:"subtotal"`
	Total        float64           `json:"total"`
	TotalLabel   string            `json:"totalLabel"`
	// MissingKeys are cart keys the catalog did not resolve; they are not priced.
	MissingKeys []string `json:"missingKeys"`
}
