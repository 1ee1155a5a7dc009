package service

import (
	"context"

	"kv-rentals/models"
)

// CartServiceInterface defines the cart operations available to one browser session.
// Every mutation loads the stored cart, changes it in memory and writes the whole cart back.
type CartServiceInterface interface {
	LoadCart(ctx context.Context, sessionID string) (*models.Cart, error)
	AddToCart(ctx context.Context, sessionID, key string, qty int) (*models.Cart, error)
	RemoveFromCart(ctx context.Context, sessionID, key string) (*models.Cart, error)
	// AdjustQuantity applies a +/- delta; a line that would drop to zero is removed.
	AdjustQuantity(ctx context.Context, sessionID, key string, delta int) (*models.Cart, error)
	UpdateDays(ctx context.Context, sessionID string, days int) (*models.Cart, error)
	UpdateStartDate(ctx context.Context, sessionID, startingDate string) (*models.Cart, error)
	ClearCart(ctx context.Context, sessionID string) error
	LineCount(ctx context.Context, sessionID string) (int, error)
	Ping(ctx context.Context) error
}
