package controller

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"kv-rentals/auth"
	"kv-rentals/models"
	"kv-rentals/service"
	"kv-rentals/utils"
)

// maxBodyBytes bounds cart request bodies.
const maxBodyBytes = 64 << 10

// CartController handles HTTP requests for the session cart
type CartController struct {
	carts     service.CartServiceInterface
	summaries service.SummaryServiceInterface
	checkout  service.CheckoutServiceInterface
	sessions  *SessionResolver
}

// NewCartController creates a new CartController
func NewCartController(
	carts service.CartServiceInterface,
	summaries service.SummaryServiceInterface,
	checkout service.CheckoutServiceInterface,
	sessions *SessionResolver,
) *CartController {
	return &CartController{
		carts:     carts,
		summaries: summaries,
		checkout:  checkout,
		sessions:  sessions,
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return dec.Decode(v)
}

// itemKeyFromPath extracts {key} from the escaped path /api/cart/items/{key}[/suffix]
func itemKeyFromPath(path, suffix string) (string, bool) {
	rest := strings.TrimPrefix(path, "/api/cart/items/")
	if rest == path {
		return "", false
	}
	if suffix != "" {
		if !strings.HasSuffix(rest, suffix) {
			return "", false
		}
		rest = strings.TrimSuffix(rest, suffix)
	}
	if rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	key, err := url.PathUnescape(rest)
	if err != nil || key == "" {
		return "", false
	}
	return key, true
}

// Cart handles GET and DELETE /api/cart
// Example response:
// {
//   "version": 1,
//   "orderedItems": [{"key": "MIC01", "qty": 2}],
//   "days": 1,
//   "startingDate": "2024-05-01",
//   "endingDate": "2024-05-01"
// }
func (c *CartController) Cart(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		c.GetCart(w, r)
	case http.MethodDelete:
		c.ClearCart(w, r)
	default:
		methodNotAllowed(w, r, "Cart")
	}
}

// GetCart handles GET /api/cart
func (c *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := c.sessions.Resolve(w, r)
	logrus.WithField("session", sessionID).Debug("📥 GetCart")

	cart, err := c.carts.LoadCart(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, "GetCart", err, "")
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// ClearCart handles DELETE /api/cart
func (c *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := c.sessions.Resolve(w, r)
	logrus.WithField("session", sessionID).Info("📥 ClearCart")

	if err := c.carts.ClearCart(r.Context(), sessionID); err != nil {
		writeServiceError(w, "ClearCart", err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCount handles GET /api/cart/count
// Example response: {"count": 2}
func (c *CartController) GetCount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, "GetCount")
		return
	}
	sessionID := c.sessions.Resolve(w, r)

	count, err := c.carts.LineCount(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, "GetCount", err, "")
		return
	}
	writeJSON(w, http.StatusOK, models.CartCountResponse{Count: count})
}

// AddItem handles POST /api/cart/items
// Example request:
// POST /api/cart/items
// {"key": "MIC01", "qty": 2}
// Adding a key already in the cart adds to its quantity.
func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, "AddItem")
		return
	}
	sessionID := c.sessions.Resolve(w, r)

	var req models.AddToCartRequest
	if err := decodeBody(w, r, &req); err != nil {
		logrus.WithError(err).Warn("❌ AddItem: Failed to decode request body")
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Key = strings.TrimSpace(req.Key)
	if req.Key == "" {
		writeError(w, http.StatusBadRequest, "key is required")
		return
	}
	if req.Qty < 1 {
		logrus.WithField("qty", req.Qty).Warn("❌ AddItem: qty must be at least 1")
		writeError(w, http.StatusBadRequest, "qty must be at least 1")
		return
	}

	logrus.WithFields(logrus.Fields{"session": sessionID, "key": req.Key, "qty": req.Qty}).Info("📥 AddItem")
	cart, err := c.carts.AddToCart(r.Context(), sessionID, req.Key, req.Qty)
	if err != nil {
		writeServiceError(w, "AddItem", err, "")
		return
	}
	logrus.WithField("lines", len(cart.OrderedItems)).Info("✅ AddItem: Added to cart")
	writeJSON(w, http.StatusOK, cart)
}

// Item handles DELETE and PATCH /api/cart/items/{key}
// Example request:
// PATCH /api/cart/items/MIC01
// {"delta": -1}
func (c *CartController) Item(w http.ResponseWriter, r *http.Request) {
	key, ok := itemKeyFromPath(r.URL.EscapedPath(), "")
	if !ok {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	switch r.Method {
	case http.MethodDelete:
		c.removeItem(w, r, key)
	case http.MethodPatch:
		c.adjustItem(w, r, key)
	default:
		methodNotAllowed(w, r, "Item")
	}
}

func (c *CartController) removeItem(w http.ResponseWriter, r *http.Request, key string) {
	sessionID := c.sessions.Resolve(w, r)
	logrus.WithFields(logrus.Fields{"session": sessionID, "key": key}).Info("📥 RemoveItem")

	cart, err := c.carts.RemoveFromCart(r.Context(), sessionID, key)
	if err != nil {
		writeServiceError(w, "RemoveItem", err, "")
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (c *CartController) adjustItem(w http.ResponseWriter, r *http.Request, key string) {
	sessionID := c.sessions.Resolve(w, r)

	var req models.AdjustQuantityRequest
	if err := decodeBody(w, r, &req); err != nil {
		logrus.WithError(err).Warn("❌ AdjustItem: Failed to decode request body")
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	logrus.WithFields(logrus.Fields{"session": sessionID, "key": key, "delta": req.Delta}).Info("📥 AdjustItem")
	cart, err := c.carts.AdjustQuantity(r.Context(), sessionID, key, req.Delta)
	if err != nil {
		writeServiceError(w, "AdjustItem", err, "")
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// UpdateDays handles PUT /api/cart/days
// Example request:
// PUT /api/cart/days
// {"days": "3"}
// Values below 1 and non-numeric values become 1.
func (c *CartController) UpdateDays(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w, r, "UpdateDays")
		return
	}
	sessionID := c.sessions.Resolve(w, r)

	var req models.UpdateDaysRequest
	if err := decodeBody(w, r, &req); err != nil {
		logrus.WithError(err).Warn("❌ UpdateDays: Failed to decode request body")
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	days := utils.CoerceDays(req.RawDays())

	logrus.WithFields(logrus.Fields{"session": sessionID, "days": days}).Info("📥 UpdateDays")
	cart, err := c.carts.UpdateDays(r.Context(), sessionID, days)
	if err != nil {
		writeServiceError(w, "UpdateDays", err, "")
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// UpdateStartDate handles PUT /api/cart/start-date
// Example request:
// PUT /api/cart/start-date
// {"startingDate": "2024-05-10"}
func (c *CartController) UpdateStartDate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w, r, "UpdateStartDate")
		return
	}
	sessionID := c.sessions.Resolve(w, r)

	var req models.UpdateStartDateRequest
	if err := decodeBody(w, r, &req); err != nil {
		logrus.WithError(err).Warn("❌ UpdateStartDate: Failed to decode request body")
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	logrus.WithFields(logrus.Fields{"session": sessionID, "startingDate": req.StartingDate}).Info("📥 UpdateStartDate")
	cart, err := c.carts.UpdateStartDate(r.Context(), sessionID, strings.TrimSpace(req.StartingDate))
	if err != nil {
		writeServiceError(w, "UpdateStartDate", err, "")
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// GetSummary handles GET /api/cart/summary
// Returns the cart priced against the catalog, see models.CartSummary.
func (c *CartController) GetSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, "GetSummary")
		return
	}
	sessionID := c.sessions.Resolve(w, r)

	summary, err := c.summaries.Summarize(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrUpstream) {
			logrus.WithError(err).Error("❌ GetSummary: Failed to load products")
			writeError(w, http.StatusBadGateway, msgItemsFailed)
			return
		}
		writeServiceError(w, "GetSummary", err, msgItemsFailed)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Checkout handles POST /api/cart/checkout
// Requires "Authorization: Bearer <token>". The cart is cleared only when the order is placed.
// Example response:
// {
//   "message": "Order placed successfully",
//   "order": {"orderId": "ORD-1001", ...}
// }
func (c *CartController) Checkout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, "Checkout")
		return
	}
	sessionID := c.sessions.Resolve(w, r)
	logrus.WithField("session", sessionID).Info("📥 Checkout")

	token, err := auth.BearerToken(r)
	if err != nil {
		writeServiceError(w, "Checkout", service.ErrNotSignedIn, "")
		return
	}

	resp, err := c.checkout.Checkout(r.Context(), sessionID, token)
	if err != nil {
		writeServiceError(w, "Checkout", err, msgOrderFailed)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
