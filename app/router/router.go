package router

import (
	"net/http"
	"strings"

	"kv-rentals/app/controller"
)

type Controllers struct {
	Health *controller.HealthController
	Cart   *controller.CartController
	Quote  *controller.QuoteController
	Image  *controller.ImageController
	User   *controller.UserController
}

// notFoundHandler answers unknown paths with the same JSON error shape as the API
func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(`{"message":"Not found"}`))
}

func SetupRoutes(mux *http.ServeMux, controllers *Controllers) {
	// Ping endpoint
	mux.HandleFunc("/ping", controllers.Health.Ping)

	// Whole cart - GET loads (creating the default), DELETE clears
	mux.HandleFunc("/api/cart", controllers.Cart.Cart)

	// Header badge
	mux.HandleFunc("/api/cart/count", controllers.Cart.GetCount)

	// Add to cart
	mux.HandleFunc("/api/cart/items", controllers.Cart.AddItem)

	// Line by key - DELETE removes, PATCH adjusts quantity, GET .../thumbnail serves the image
	mux.HandleFunc("/api/cart/items/", func(w http.ResponseWriter, r *http.Request) {
		// Only /api/cart/items/{key}/thumbnail; a key may itself be "thumbnail".
		rest := strings.TrimPrefix(r.URL.EscapedPath(), "/api/cart/items/")
		if strings.Count(rest, "/") == 1 && strings.HasSuffix(rest, "/thumbnail") {
			controllers.Image.GetThumbnail(w, r)
			return
		}
		controllers.Cart.Item(w, r)
	})

	// Rental window
	mux.HandleFunc("/api/cart/days", controllers.Cart.UpdateDays)
	mux.HandleFunc("/api/cart/start-date", controllers.Cart.UpdateStartDate)

	// Pricing, checkout and quote
	mux.HandleFunc("/api/cart/summary", controllers.Cart.GetSummary)
	mux.HandleFunc("/api/cart/checkout", controllers.Cart.Checkout)
	mux.HandleFunc("/api/cart/quote", controllers.Quote.GetQuote)

	// Signed-in user, decoded from the bearer token
	mux.HandleFunc("/api/me", controllers.User.GetMe)

	mux.HandleFunc("/", notFoundHandler)
}
