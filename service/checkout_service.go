package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"kv-rentals/models"
)

// CheckoutServiceInterface defines the contract for turning a session's cart into an order
type CheckoutServiceInterface interface {
	Checkout(ctx context.Context, sessionID, token string) (*models.CheckoutResponse, error)
}

// CheckoutService submits the cart to the orders API and clears it once the order exists.
type CheckoutService struct {
	carts  CartServiceInterface
	orders OrderServiceInterface
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(carts CartServiceInterface, orders OrderServiceInterface) *CheckoutService {
	return &CheckoutService{
		carts:  carts,
		orders: orders,
	}
}

// Ensure CheckoutService implements CheckoutServiceInterface
var _ CheckoutServiceInterface = (*CheckoutService)(nil)

// NewCheckoutRequest builds the orders API payload from a cart
func NewCheckoutRequest(cart *models.Cart) models.CheckoutRequest {
	return models.CheckoutRequest{
		OrderedItems: append([]models.CartLine{}, cart.OrderedItems...),
		Days:         strconv.Itoa(cart.Days),
		StartingDate: cart.StartingDate,
		EndingDate:   cart.EndingDate,
	}
}

// Checkout places the order. The cart is cleared only after the orders API
// accepted it; on any failure the cart is left as it was.
func (s *CheckoutService) Checkout(ctx context.Context, sessionID, token string) (*models.CheckoutResponse, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrNotSignedIn
	}

	cart, err := s.carts.LoadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(cart.OrderedItems) == 0 {
		return nil, ErrEmptyCart
	}

	resp, err := s.orders.PlaceOrder(ctx, token, NewCheckoutRequest(cart))
	if err != nil {
		return nil, err
	}

	if err := s.carts.ClearCart(ctx, sessionID); err != nil {
		// The order exists; a stale cart is the lesser problem.
		logrus.WithError(err).WithField("orderId", resp.Order.OrderID).Error("❌ Checkout: order placed but cart not cleared")
	}
	logrus.WithFields(logrus.Fields{
		"orderId": resp.Order.OrderID,
		"lines":   len(cart.OrderedItems),
	}).Info("✅ Checkout: order placed")
	return resp, nil
}
