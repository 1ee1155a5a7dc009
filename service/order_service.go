package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"kv-rentals/models"
)

// OrderServiceInterface defines the contract for placing orders with the orders API
type OrderServiceInterface interface {
	PlaceOrder(ctx context.Context, token string, order models.CheckoutRequest) (*models.CheckoutResponse, error)
}

// OrderService posts orders to POST {backendURL}/api/orders
type OrderService struct {
	backendURL string
	client     *http.Client
}

// NewOrderService creates a new OrderService
func NewOrderService(backendURL string, client *http.Client) *OrderService {
	if client == nil {
		client = http.DefaultClient
	}
	return &OrderService{
		backendURL: backendURL,
		client:     client,
	}
}

// Ensure OrderService implements OrderServiceInterface
var _ OrderServiceInterface = (*OrderService)(nil)

// PlaceOrder sends the order with the customer's bearer token.
func (s *OrderService) PlaceOrder(ctx context.Context, token string, order models.CheckoutRequest) (*models.CheckoutResponse, error) {
	body, err := json.Marshal(order)
	if err != nil {
		return nil, errors.Wrap(err, "encode order")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.backendURL+"/api/orders", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build order request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(ErrUpstream, "post order: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Wrap(readUpstreamError(resp), "post order")
	}

	var out models.CheckoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.Wrapf(ErrUpstream, "decode order response: %v", err)
	}
	return &out, nil
}
