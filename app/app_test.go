package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kv-rentals/app/controller"
	"kv-rentals/config"
	"kv-rentals/kvstore"
	"kv-rentals/models"
)

const (
	sessionA = "0b6f3a7e-5a49-4c52-9c1e-2d3f4a5b6c7d"
	sessionB = "9d8c7b6a-5f4e-4d3c-8b2a-1f0e9d8c7b6a"
)

// fakeBackend serves the catalog and orders APIs the cart talks to.
type fakeBackend struct {
	orderStatus   int
	orderResponse string
	orders        int
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Path == "/api/products/MIC01":
		_, _ = w.Write([]byte(`{"key":"MIC01","name":"Shure SM58","price":1500,"image":[]}`))
	case r.URL.Path == "/api/products/LED01":
		_, _ = w.Write([]byte(`{"key":"LED01","name":"LED Par","price":"2000","image":[]}`))
	case strings.HasPrefix(r.URL.Path, "/api/products/"):
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Product not found"}`))
	case r.URL.Path == "/api/orders" && r.Method == http.MethodPost:
		b.orders++
		w.WriteHeader(b.orderStatus)
		_, _ = w.Write([]byte(b.orderResponse))
	default:
		http.NotFound(w, r)
	}
}

func newTestApp(t *testing.T) (*App, *fakeBackend, *kvstore.MemoryStore) {
	t.Helper()
	backend := &fakeBackend{
		orderStatus:   http.StatusCreated,
		orderResponse: `{"message":"Order created successfully","order":{"orderId":"ORD0001","days":"3",` +
			`"orderedItems":[{"product":{"key":"MIC01","name":"Shure SM58","price":1500,"image":["mic.jpg"]},"quantity":2}],` +
			`"totalAmount":"3000"}}`,
	}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	store := kvstore.NewMemoryStore()
	cfg := config.Config{
		BackendURL:        srv.URL,
		BaseURL:           "http://localhost:8080",
		SessionCookie:     "kv_cart_session",
		HTTPClientTimeout: 5 * time.Second,
	}
	return Initialize(cfg, store), backend, store
}

func do(t *testing.T, a *App, method, path, session, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if session != "" {
		req.Header.Set(controller.SessionHeader, session)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) models.Cart {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var cart models.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	return cart
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body models.APIErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Message
}

func signedToken(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email":     "nimal@example.com",
		"role":      "customer",
		"firstName": "Nimal",
		"lastName":  "Perera",
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func TestGetCartMintsSession(t *testing.T) {
	a, _, store := newTestApp(t)

	rec := do(t, a, http.MethodGet, "/api/cart", "", "")
	cart := decodeCart(t, rec)
	assert.Empty(t, cart.OrderedItems)
	assert.Equal(t, 1, cart.Days)
	assert.Equal(t, cart.StartingDate, cart.EndingDate)

	minted := rec.Header().Get(controller.SessionHeader)
	require.NotEmpty(t, minted)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "kv_cart_session", cookies[0].Name)
	assert.Equal(t, minted, cookies[0].Value)
	assert.Equal(t, 1, store.Len())
}

func TestGetCartKeepsExistingSession(t *testing.T) {
	a, _, _ := newTestApp(t)

	rec := do(t, a, http.MethodGet, "/api/cart", sessionA, "")
	decodeCart(t, rec)
	assert.Empty(t, rec.Header().Get(controller.SessionHeader))
	assert.Empty(t, rec.Result().Cookies())
}

func TestCartFlowOverHTTP(t *testing.T) {
	a, _, _ := newTestApp(t)

	decodeCart(t, do(t, a, http.MethodPost, "/api/cart/items", sessionA, `{"key":"MIC01","qty":2}`))
	cart := decodeCart(t, do(t, a, http.MethodPost, "/api/cart/items", sessionA, `{"key":"MIC01","qty":1}`))
	assert.Equal(t, []models.CartLine{{Key: "MIC01", Qty: 3}}, cart.OrderedItems)

	cart = decodeCart(t, do(t, a, http.MethodPost, "/api/cart/items", sessionA, `{"key":"LED01","qty":1}`))
	assert.Equal(t, []string{"MIC01", "LED01"}, cart.Keys())

	cart = decodeCart(t, do(t, a, http.MethodPatch, "/api/cart/items/MIC01", sessionA, `{"delta":-1}`))
	assert.Equal(t, 2, cart.OrderedItems[cart.Find("MIC01")].Qty)

	cart = decodeCart(t, do(t, a, http.MethodPatch, "/api/cart/items/LED01", sessionA, `{"delta":-1}`))
	assert.Equal(t, []string{"MIC01"}, cart.Keys())

	cart = decodeCart(t, do(t, a, http.MethodPut, "/api/cart/start-date", sessionA, `{"startingDate":"2024-05-01"}`))
	assert.Equal(t, "2024-05-01", cart.EndingDate)

	cart = decodeCart(t, do(t, a, http.MethodPut, "/api/cart/days", sessionA, `{"days":"3"}`))
	assert.Equal(t, 3, cart.Days)
	assert.Equal(t, "2024-05-03", cart.EndingDate)

	rec := do(t, a, http.MethodGet, "/api/cart/count", sessionA, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":1}`, rec.Body.String())

	cart = decodeCart(t, do(t, a, http.MethodDelete, "/api/cart/items/MIC01", sessionA, ""))
	assert.Empty(t, cart.OrderedItems)
	assert.Equal(t, 3, cart.Days)
}

func TestUpdateDaysCoercesInput(t *testing.T) {
	a, _, _ := newTestApp(t)

	tests := map[string]int{
		`{"days":4}`:      4,
		`{"days":"7"}`:    7,
		`{"days":"2abc"}`: 2,
		`{"days":2.9}`:    2,
		`{"days":1e2}`:    100,
		`{"days":2.5E1}`:  25,
		`{"days":-1e2}`:   1,
		`{"days":0}`:      1,
		`{"days":"-3"}`:   1,
		`{"days":"abc"}`:  1,
		`{"days":null}`:   1,
		`{}`:              1,
	}
	for body, want := range tests {
		cart := decodeCart(t, do(t, a, http.MethodPut, "/api/cart/days", sessionA, body))
		assert.Equal(t, want, cart.Days, body)
	}
}

func TestAddItemValidation(t *testing.T) {
	a, _, _ := newTestApp(t)

	tests := []struct {
		body string
		want string
	}{
		{`{"key":"MIC01","qty":0}`, "qty must be at least 1"},
		{`{"key":"MIC01","qty":-2}`, "qty must be at least 1"},
		{`{"key":"  ","qty":1}`, "key is required"},
		{`not json`, "Invalid request body"},
	}
	for _, tt := range tests {
		rec := do(t, a, http.MethodPost, "/api/cart/items", sessionA, tt.body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, tt.body)
		assert.Equal(t, tt.want, errorMessage(t, rec))
	}

	cart := decodeCart(t, do(t, a, http.MethodGet, "/api/cart", sessionA, ""))
	assert.Empty(t, cart.OrderedItems)
}

func TestUpdateStartDateRejectsInvalidDate(t *testing.T) {
	a, _, _ := newTestApp(t)

	rec := do(t, a, http.MethodPut, "/api/cart/start-date", sessionA, `{"startingDate":"05/01/2024"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid rental date", errorMessage(t, rec))
}

func TestItemKeysAreUnescaped(t *testing.T) {
	a, _, _ := newTestApp(t)

	decodeCart(t, do(t, a, http.MethodPost, "/api/cart/items", sessionA, `{"key":"CAB/10M","qty":1}`))
	cart := decodeCart(t, do(t, a, http.MethodDelete, "/api/cart/items/CAB%2F10M", sessionA, ""))
	assert.Empty(t, cart.OrderedItems)
}

func TestSessionsAreIsolated(t *testing.T) {
	a, _, _ := newTestApp(t)

	decodeCart(t, do(t, a, http.MethodPost, "/api/cart/items", sessionA, `{"key":"MIC01","qty":1}`))
	cart := decodeCart(t, do(t, a, http.MethodGet, "/api/cart", sessionB, ""))
	assert.Empty(t, cart.OrderedItems)

	// Session ids that are not UUIDs are ignored and a fresh one is minted.
	rec := do(t, a, http.MethodGet, "/api/cart", "../../cart", "")
	decodeCart(t, rec)
	assert.NotEmpty(t, rec.Header().Get(controller.SessionHeader))
}

func TestClearCart(t *testing.T) {
	a, _, _ := newTestApp(t)

	decodeCart(t, do(t, a, http.MethodPost, "/api/cart/items", sessionA, `{"key":"MIC01","qty":1}`))
	rec := do(t, a, http.MethodDelete, "/api/cart", sessionA, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	cart := decodeCart(t, do(t, a, http.MethodGet, "/api/cart", sessionA, ""))
	assert.Empty(t, cart.OrderedItems)
}

func TestSummary(t *testing.T) {
	a, _, _ := newTestApp(t)

	decodeCart(t, do(t, a, http.MethodPost, "/api/cart/items", sessionA, `{"key":"MIC01","qty":2}`))
	decodeCart(t, do(t, a, http.MethodPost, "/api/cart/items", sessionA, `{"key":"LED01","qty":1}`))
	decodeCart(t, do(t, a, http.MethodPut, "/api/cart/days", sessionA, `{"days":2}`))

	rec := do(t, a, http.MethodGet, "/api/cart/summary", sessionA, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var summary models.CartSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Len(t, summary.Lines, 2)
	assert.Equal(t, 10000.0, summary.Total)
	assert.Equal(t, "Rs. 10,000", summary.TotalLabel)
}

func TestSummaryFailsWhenAnyProductFails(t *testing.T) {
	a, _, _ := newTestApp(t)

	decodeCart(t, do(t, a, http.MethodPost, "/api/cart/items", sessionA, `{"key":"GONE","qty":1}`))
	rec := do(t, a, http.MethodGet, "/api/cart/summary", sessionA, "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Failed to load cart items", errorMessage(t, rec))
}

func TestQuoteHTML(t *testing.T) {
	a, _, _ := newTestApp(t)

	decodeCart(t, do(t, a, http.MethodPost, "/api/cart/items", sessionA, `{"key":"MIC01","qty":1}`))
	// The headless browser identifies the cart with ?session=
	rec := do(t, a, http.MethodGet, "/api/cart/quote?session="+sessionA, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Shure SM58")
	assert.Contains(t, rec.Body.String(), "Total: Rs. 1,500")

	rec = do(t, a, http.MethodGet, "/api/cart/quote?format=docx", sessionA, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckout(t *testing.T) {
	a, backend, _ := newTestApp(t)
	auth := []string{"Authorization", "Bearer " + signedToken(t)}

	rec := do(t, a, http.MethodPost, "/api/cart/checkout", sessionA, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Please sign in to checkout", errorMessage(t, rec))

	rec = do(t, a, http.MethodPost, "/api/cart/checkout", sessionA, "", auth...)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Your cart is empty", errorMessage(t, rec))
	assert.Zero(t, backend.orders)

	decodeCart(t, do(t, a, http.MethodPost, "/api/cart/items", sessionA, `{"key":"MIC01","qty":2}`))
	rec = do(t, a, http.MethodPost, "/api/cart/checkout", sessionA, "", auth...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp models.CheckoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ORD0001", resp.Order.OrderID)
	require.Len(t, resp.Order.OrderedItems, 1)
	line := resp.Order.OrderedItems[0]
	assert.Equal(t, "MIC01", line.Product.Key)
	assert.Equal(t, "Shure SM58", line.Product.Name)
	assert.Equal(t, models.Price(1500), line.Product.Price)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, models.Price(3000), resp.Order.TotalAmount)
	assert.Equal(t, 1, backend.orders)

	// The body relayed to the browser keeps the backend's line shape.
	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	items := raw["order"].(map[string]any)["orderedItems"].([]any)
	assert.Equal(t, 2.0, items[0].(map[string]any)["quantity"])
	assert.Equal(t, "Shure SM58", items[0].(map[string]any)["product"].(map[string]any)["name"])

	cart := decodeCart(t, do(t, a, http.MethodGet, "/api/cart", sessionA, ""))
	assert.Empty(t, cart.OrderedItems)
}

func TestCheckoutFailureKeepsCart(t *testing.T) {
	a, backend, _ := newTestApp(t)
	auth := []string{"Authorization", "Bearer " + signedToken(t)}
	decodeCart(t, do(t, a, http.MethodPost, "/api/cart/items", sessionA, `{"key":"MIC01","qty":2}`))

	backend.orderStatus = http.StatusConflict
	backend.orderResponse = `{"message":"MIC01 is not available on those dates"}`
	rec := do(t, a, http.MethodPost, "/api/cart/checkout", sessionA, "", auth...)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "MIC01 is not available on those dates", errorMessage(t, rec))

	backend.orderStatus = http.StatusInternalServerError
	backend.orderResponse = `oops`
	rec = do(t, a, http.MethodPost, "/api/cart/checkout", sessionA, "", auth...)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Failed to place order", errorMessage(t, rec))

	cart := decodeCart(t, do(t, a, http.MethodGet, "/api/cart", sessionA, ""))
	assert.Equal(t, []models.CartLine{{Key: "MIC01", Qty: 2}}, cart.OrderedItems)
}

func TestMe(t *testing.T) {
	a, _, _ := newTestApp(t)

	rec := do(t, a, http.MethodGet, "/api/me", "", "", "Authorization", "Bearer "+signedToken(t))
	require.Equal(t, http.StatusOK, rec.Code)
	var me models.CurrentUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.True(t, me.SignedIn)
	assert.Equal(t, "Nimal Perera", me.DisplayName)
	assert.False(t, me.IsAdmin)

	rec = do(t, a, http.MethodGet, "/api/me", "", "", "Authorization", "Bearer garbage")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"signedIn":false,"isAdmin":false}`, rec.Body.String())
}

func TestPingAndRouting(t *testing.T) {
	a, _, _ := newTestApp(t)

	rec := do(t, a, http.MethodGet, "/ping", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	assert.Equal(t, http.StatusMethodNotAllowed, do(t, a, http.MethodPost, "/ping", "", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, a, http.MethodGet, "/api/cart/items", sessionA, "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, a, http.MethodPost, "/api/cart/days", sessionA, `{"days":2}`).Code)
	assert.Equal(t, http.StatusNotFound, do(t, a, http.MethodGet, "/nope", "", "").Code)
}

func TestOpenStoreMemoryAndSQLite(t *testing.T) {
	ctx := context.Background()

	store, closers, err := OpenStore(ctx, config.Config{StorageBackend: config.StorageMemory})
	require.NoError(t, err)
	assert.Empty(t, closers)
	assert.NoError(t, store.Ping(ctx))

	store, closers, err = OpenStore(ctx, config.Config{StorageBackend: config.StorageSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	a := Initialize(config.Config{SessionCookie: "kv_cart_session"}, store)
	a.closers = closers
	t.Cleanup(a.Close)

	cart := decodeCart(t, do(t, a, http.MethodPost, "/api/cart/items", sessionA, `{"key":"MIC01","qty":2}`))
	assert.Equal(t, 2, cart.OrderedItems[cart.Find("MIC01")].Qty)
	cart = decodeCart(t, do(t, a, http.MethodGet, "/api/cart", sessionA, ""))
	assert.Equal(t, 2, cart.OrderedItems[cart.Find("MIC01")].Qty)
}

func TestOpenStoreUnknownBackend(t *testing.T) {
	_, _, err := OpenStore(context.Background(), config.Config{StorageBackend: "etcd"})
	assert.Error(t, err)
}

func TestItemKeyedThumbnailIsAnOrdinaryLine(t *testing.T) {
	a, _, _ := newTestApp(t)

	decodeCart(t, do(t, a, http.MethodPost, "/api/cart/items", sessionA, `{"key":"thumbnail","qty":2}`))
	cart := decodeCart(t, do(t, a, http.MethodPatch, "/api/cart/items/thumbnail", sessionA, `{"delta":1}`))
	assert.Equal(t, []models.CartLine{{Key: "thumbnail", Qty: 3}}, cart.OrderedItems)

	cart = decodeCart(t, do(t, a, http.MethodDelete, "/api/cart/items/thumbnail", sessionA, ""))
	assert.Empty(t, cart.OrderedItems)
}
