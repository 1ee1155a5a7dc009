package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"kv-rentals/models"
)

// maxConcurrentProductFetches bounds parallel catalog requests for one cart.
const maxConcurrentProductFetches = 8

// ProductServiceInterface defines the contract for resolving cart keys against the catalog API
type ProductServiceInterface interface {
	GetProduct(ctx context.Context, key string) (*models.Product, error)
	// GetProducts resolves every key; one failed lookup fails the whole batch.
	GetProducts(ctx context.Context, keys []string) (map[string]models.Product, error)
}

// ProductService reads products from GET {backendURL}/api/products/:key
type ProductService struct {
	backendURL string
	client     *http.Client
}

// NewProductService creates a new ProductService
func NewProductService(backendURL string, client *http.Client) *ProductService {
	if client == nil {
		client = http.DefaultClient
	}
	return &ProductService{
		backendURL: backendURL,
		client:     client,
	}
}

// Ensure ProductService implements ProductServiceInterface
var _ ProductServiceInterface = (*ProductService)(nil)

func (s *ProductService) GetProduct(ctx context.Context, key string) (*models.Product, error) {
	endpoint := s.backendURL + "/api/products/" + url.PathEscape(key)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build product request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(ErrUpstream, "fetch product %s: %v", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(readUpstreamError(resp), "fetch product %s", key)
	}

	var product models.Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, errors.Wrapf(ErrUpstream, "decode product %s: %v", key, err)
	}
	if product.Key == "" {
		product.Key = key
	}
	return &product, nil
}

func (s *ProductService) GetProducts(ctx context.Context, keys []string) (map[string]models.Product, error) {
	products := make(map[string]models.Product, len(keys))
	if len(keys) == 0 {
		return products, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentProductFetches)
	for _, key := range keys {
		key := key
		g.Go(func() error {
			product, err := s.GetProduct(gctx, key)
			if err != nil {
				return err
			}
			mu.Lock()
			products[key] = *product
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logrus.WithError(err).WithField("keys", len(keys)).Warn("⚠️  GetProducts: failed to load cart items")
		return nil, err
	}
	return products, nil
}
