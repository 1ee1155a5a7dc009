package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kv-rentals/models"
)

func catalogServer(t *testing.T, products map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(r.URL.Path, "/api/products/")
		body, ok := products[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Product not found"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetProductAcceptsNumericAndStringPrices(t *testing.T) {
	srv := catalogServer(t, map[string]string{
		"MIC01": `{"key":"MIC01","name":"Shure SM58","price":1500,"image":["mic.jpg"]}`,
		"LED01": `{"key":"LED01","name":"LED Par","price":"2250.50","image":[]}`,
		"BAD01": `{"key":"BAD01","name":"Broken","price":"call us"}`,
	})
	svc := NewProductService(srv.URL, NewHTTPClient(5*time.Second))
	ctx := context.Background()

	mic, err := svc.GetProduct(ctx, "MIC01")
	require.NoError(t, err)
	assert.Equal(t, models.Price(1500), mic.Price)
	assert.Equal(t, "mic.jpg", mic.FirstImage())

	led, err := svc.GetProduct(ctx, "LED01")
	require.NoError(t, err)
	assert.Equal(t, models.Price(2250.5), led.Price)
	assert.Equal(t, "", led.FirstImage())

	bad, err := svc.GetProduct(ctx, "BAD01")
	require.NoError(t, err)
	assert.Zero(t, bad.Price)
}

func TestGetProductNotFound(t *testing.T) {
	srv := catalogServer(t, nil)
	_, err := NewProductService(srv.URL, nil).GetProduct(context.Background(), "NOPE")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstream))
	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusNotFound, upstream.StatusCode)
	assert.Equal(t, "Product not found", upstream.Message)
}

func TestGetProductsResolvesAllKeys(t *testing.T) {
	srv := catalogServer(t, map[string]string{
		"A": `{"key":"A","name":"Amp","price":10}`,
		"B": `{"key":"B","name":"Board","price":20}`,
		"C": `{"key":"C","name":"Cable","price":30}`,
	})
	products, err := NewProductService(srv.URL, nil).GetProducts(context.Background(), []string{"A", "B", "C"})
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Board", products["B"].Name)
}

func TestGetProductsFailsWhenAnyLookupFails(t *testing.T) {
	srv := catalogServer(t, map[string]string{
		"A": `{"key":"A","name":"Amp","price":10}`,
	})
	_, err := NewProductService(srv.URL, nil).GetProducts(context.Background(), []string{"A", "MISSING"})
	assert.True(t, errors.Is(err, ErrUpstream))
}

func TestGetProductsWithNoKeys(t *testing.T) {
	products, err := NewProductService("http://unused.invalid", nil).GetProducts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestGetProductEscapesKey(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_ = json.NewEncoder(w).Encode(models.Product{Key: "a/b", Name: "Slash"})
	}))
	t.Cleanup(srv.Close)

	_, err := NewProductService(srv.URL, nil).GetProduct(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, "/api/products/a%2Fb", gotPath)
}
