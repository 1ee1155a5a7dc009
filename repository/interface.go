package repository

import (
	"context"

	"kv-rentals/models"
)

// CartRepositoryInterface defines the contract for reading and writing one stored cart
type CartRepositoryInterface interface {
	// Load returns the stored cart, creating and persisting the default cart when none exists.
	Load(ctx context.Context) (*models.Cart, error)
	// Save writes the whole cart back.
	Save(ctx context.Context, cart *models.Cart) error
	// Clear removes the stored cart; the next Load starts over from the default.
	Clear(ctx context.Context) error
}
