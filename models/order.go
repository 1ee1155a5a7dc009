package models

import "encoding/json"

// CheckoutRequest is the body posted to the orders API
// Example:
// {
//   "orderedItems": [{"key": "MIC01", "qty": 2}],
//   "days": "3",
//   "startingDate": "2024-05-01",
//   "endingDate": "2024-05-03"
// }
// days travels as a string, the way the storefront always sent it.
type CheckoutRequest struct {
	OrderedItems []CartLine `json:"orderedItems"`
	Days         string     `json:"days"`
	StartingDate string     `json:"startingDate"`
	EndingDate   string     `json:"endingDate"`
}

// Order is the order record echoed back by the orders API
type Order struct {
	OrderID      string      `json:"orderId"`
	Email        string      `json:"email,omitempty"`
	OrderDate    string      `json:"orderDate,omitempty"`
	OrderedItems []OrderLine `json:"orderedItems,omitempty"`
	StartingDate string      `json:"startingDate,omitempty"`
	EndingDate   string      `json:"endingDate,omitempty"`
	IsApproved   bool        `json:"isApproved"`
	TotalAmount  Price       `json:"totalAmount,omitempty"`

	// Days is echoed as the backend stored it, number or string.
	Days json.RawMessage `json:"days,omitempty"`
}

// OrderLine is one line of a placed order, with the product expanded
// Example: {"product": {"key": "MIC01", "name": "Shure SM58", "price": 1500, "image": []}, "quantity": 2}
type OrderLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}


// CheckoutResponse is the orders API success payload
// Example: {"message": "Order created successfully", "order": {"orderId": "ORD0001"}}
type CheckoutResponse struct {
	Message string `json:"message"`
	Order   Order  `json:"order"`
}

// APIErrorResponse is the error body the backend returns
// Example: {"message": "Item MIC01 is not available"}
type APIErrorResponse struct {
	Message string `json:"message"`
}
