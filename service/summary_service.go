package service

import (
	"context"

	"github.com/pkg/errors"

	"kv-rentals/models"
	"kv-rentals/pricing"
)

// SummaryServiceInterface defines the contract for pricing a session's cart
type SummaryServiceInterface interface {
	Summarize(ctx context.Context, sessionID string) (*models.CartSummary, error)
}

// SummaryService joins the stored cart with catalog prices
type SummaryService struct {
	carts    CartServiceInterface
	products ProductServiceInterface
	engine   *pricing.Engine
}

// NewSummaryService creates a new SummaryService
func NewSummaryService(carts CartServiceInterface, products ProductServiceInterface, engine *pricing.Engine) *SummaryService {
	if engine == nil {
		engine = pricing.NewEngine()
	}
	return &SummaryService{
		carts:    carts,
		products: products,
		engine:   engine,
	}
}

// Ensure SummaryService implements SummaryServiceInterface
var _ SummaryServiceInterface = (*SummaryService)(nil)

func (s *SummaryService) Summarize(ctx context.Context, sessionID string) (*models.CartSummary, error) {
	cart, err := s.carts.LoadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	products := map[string]models.Product{}
	if len(cart.OrderedItems) > 0 {
		products, err = s.products.GetProducts(ctx, cart.Keys())
		if err != nil {
			return nil, errors.Wrap(err, "load cart items")
		}
	}

	summary := s.engine.Summarize(cart, products)
	return &summary, nil
}
