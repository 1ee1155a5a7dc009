// Package pricing turns a cart and its resolved products into rental totals.
package pricing

import (
	"kv-rentals/models"
	"kv-rentals/utils"
)

// Engine prices carts. The daily price of each product is charged for every
// unit and every rental day: line total = price × qty × days.
type Engine struct {
	formatAmount func(float64) string
}

// NewEngine creates a pricing engine that labels amounts in rupees
func NewEngine() *Engine {
	return &Engine{formatAmount: utils.FormatRupees}
}

// LineTotal is the rental cost of one cart line
func LineTotal(price float64, qty, days int) float64 {
	return price * float64(qty) * float64(days)
}

// Summarize prices every cart line whose product is known. Lines without a
// product are listed in MissingKeys and contribute nothing to the total.
func (e *Engine) Summarize(cart *models.Cart, products map[string]models.Product) models.CartSummary {
	summary := models.CartSummary{
		Lines:        make([]models.CartSummaryLine, 0, len(cart.OrderedItems)),
		Days:         cart.Days,
		StartingDate: cart.StartingDate,
		EndingDate:   cart.EndingDate,
		MissingKeys:  []string{},
	}

	for _, line := range cart.OrderedItems {
		product, ok := products[line.Key]
		if !ok {
			summary.MissingKeys = append(summary.MissingKeys, line.Key)
			continue
		}

		unitPrice := float64(product.Price)
		lineTotal := LineTotal(unitPrice, line.Qty, cart.Days)
		summary.Lines = append(summary.Lines, models.CartSummaryLine{
			Key:            line.Key,
			Name:           product.Name,
			Category:       product.Category,
			Image:          product.FirstImage(),
			Qty:            line.Qty,
			UnitPrice:      unitPrice,
			LineTotal:      lineTotal,
			UnitPriceLabel: e.formatAmount(unitPrice),
			LineTotalLabel: e.formatAmount(lineTotal),
		})
		summary.Subtotal += lineTotal
	}

	// No taxes or fees: the total is the subtotal.
	summary.Total = summary.Subtotal
	summary.TotalLabel = e.formatAmount(summary.Total)
	return summary
}
