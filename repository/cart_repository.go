package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"kv-rentals/kvstore"
	"kv-rentals/models"
	"kv-rentals/utils"
)

// CartStorageKey is the fixed key the cart lives under.
const CartStorageKey = "cart"

// CartRepository reads and writes the cart stored under CartStorageKey.
// Every method is a plain read or a whole-value write; nothing is locked
// between a Load and the following Save.
type CartRepository struct {
	store kvstore.Store
	now   func() time.Time
}

// NewCartRepository creates a CartRepository. now decides what "today" is for new carts.
func NewCartRepository(store kvstore.Store, now func() time.Time) *CartRepository {
	if now == nil {
		now = time.Now
	}
	return &CartRepository{
		store: store,
		now:   now,
	}
}

// Ensure CartRepository implements CartRepositoryInterface
var _ CartRepositoryInterface = (*CartRepository)(nil)

// NewDefaultCart returns an empty one-day cart starting and ending today
func NewDefaultCart(now func() time.Time) *models.Cart {
	today := utils.Today(now)
	return &models.Cart{
		Version:      models.CartVersion,
		OrderedItems: []models.CartLine{},
		Days:         1,
		StartingDate: today,
		EndingDate:   today,
	}
}

// Load returns the stored cart. A missing cart is created with defaults and
// persisted. A cart that no longer parses is replaced by the default one.
func (r *CartRepository) Load(ctx context.Context) (*models.Cart, error) {
	raw, err := r.store.Get(ctx, CartStorageKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		cart := NewDefaultCart(r.now)
		if err := r.Save(ctx, cart); err != nil {
			return nil, err
		}
		logrus.WithField("startingDate", cart.StartingDate).Debug("🛒 Load: created default cart")
		return cart, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read cart")
	}

	cart, err := DecodeCart(raw)
	if err != nil {
		logrus.WithError(err).Warn("⚠️  Load: stored cart is unreadable, resetting to default")
		cart = NewDefaultCart(r.now)
		if err := r.Save(ctx, cart); err != nil {
			return nil, err
		}
	}
	return cart, nil
}

// Save persists the full cart.
func (r *CartRepository) Save(ctx context.Context, cart *models.Cart) error {
	raw, err := EncodeCart(cart)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, CartStorageKey, raw); err != nil {
		return errors.Wrap(err, "failed to write cart")
	}
	return nil
}

// Clear deletes the stored cart.
func (r *CartRepository) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, CartStorageKey); err != nil {
		return errors.Wrap(err, "failed to clear cart")
	}
	return nil
}
