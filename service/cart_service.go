package service

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"kv-rentals/kvstore"
	"kv-rentals/models"
	"kv-rentals/repository"
	"kv-rentals/utils"
)

// CartService implements the cart operations on top of a shared key-value store,
// one namespaced cart per session.
type CartService struct {
	store kvstore.Store
	now   func() time.Time
}

// NewCartService creates a new CartService. now is used for the default rental date.
func NewCartService(store kvstore.Store, now func() time.Time) *CartService {
	if now == nil {
		now = time.Now
	}
	return &CartService{
		store: store,
		now:   now,
	}
}

// Ensure CartService implements CartServiceInterface
var _ CartServiceInterface = (*CartService)(nil)

func (s *CartService) repo(sessionID string) repository.CartRepositoryInterface {
	return repository.NewCartRepository(kvstore.NewNamespaced(s.store, kvstore.SessionPrefix(sessionID)), s.now)
}

// LoadCart returns the session's cart, creating the default cart on first use.
func (s *CartService) LoadCart(ctx context.Context, sessionID string) (*models.Cart, error) {
	return s.repo(sessionID).Load(ctx)
}

// AddToCart merges qty into the line for key, or appends a new line.
// qty is not validated here; callers reject non-positive input.
func (s *CartService) AddToCart(ctx context.Context, sessionID, key string, qty int) (*models.Cart, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrInvalidKey
	}

	repo := s.repo(sessionID)
	cart, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	// Every line with the key gets the quantity, including duplicates already in storage.
	merged := false
	for i := range cart.OrderedItems {
		if cart.OrderedItems[i].Key == key {
			cart.OrderedItems[i].Qty += qty
			merged = true
		}
	}
	if !merged {
		cart.OrderedItems = append(cart.OrderedItems, models.CartLine{Key: key, Qty: qty})
	}

	if err := repo.Save(ctx, cart); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"key": key, "qty": qty, "lines": len(cart.OrderedItems)}).Debug("🛒 AddToCart: saved")
	return cart, nil
}

// RemoveFromCart drops every line for key and rewrites the cart, even when
// nothing matched.
func (s *CartService) RemoveFromCart(ctx context.Context, sessionID, key string) (*models.Cart, error) {
	repo := s.repo(sessionID)
	cart, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	kept := make([]models.CartLine, 0, len(cart.OrderedItems))
	for _, line := range cart.OrderedItems {
		if line.Key != key {
			kept = append(kept, line)
		}
	}
	cart.OrderedItems = kept

	if err := repo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// AdjustQuantity adds delta to the line for key. Quantities never go below 1:
// a result of 0 or less removes the line instead. Unknown keys are left alone.
func (s *CartService) AdjustQuantity(ctx context.Context, sessionID, key string, delta int) (*models.Cart, error) {
	repo := s.repo(sessionID)
	cart, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	i := cart.Find(key)
	if i < 0 {
		return cart, nil
	}

	qty := cart.OrderedItems[i].Qty + delta
	if qty <= 0 {
		return s.RemoveFromCart(ctx, sessionID, key)
	}

	cart.OrderedItems[i].Qty = qty
	if err := repo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateDays sets the rental length (minimum 1) and recomputes the ending date.
func (s *CartService) UpdateDays(ctx context.Context, sessionID string, days int) (*models.Cart, error) {
	repo := s.repo(sessionID)
	cart, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	cart.Days = utils.ClampDays(days)
	endingDate, err := utils.EndingDate(cart.StartingDate, cart.Days)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidDate, "stored starting date %q", cart.StartingDate)
	}
	cart.EndingDate = endingDate

	if err := repo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateStartDate moves the rental start and recomputes the ending date.
// Dates in the past are accepted.
func (s *CartService) UpdateStartDate(ctx context.Context, sessionID, startingDate string) (*models.Cart, error) {
	repo := s.repo(sessionID)
	cart, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	endingDate, err := utils.EndingDate(startingDate, cart.Days)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidDate, "%q", startingDate)
	}
	cart.StartingDate = startingDate
	cart.EndingDate = endingDate

	if err := repo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// ClearCart deletes the session's cart.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) error {
	return s.repo(sessionID).Clear(ctx)
}

// LineCount is the number of distinct products in the cart.
func (s *CartService) LineCount(ctx context.Context, sessionID string) (int, error) {
	cart, err := s.LoadCart(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return len(cart.OrderedItems), nil
}

// Ping checks the backing store.
func (s *CartService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
