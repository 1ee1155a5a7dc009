package controller

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"kv-rentals/models"
	"kv-rentals/service"
)

// Messages shown to the shopper; they match the storefront's wording.
const (
	msgSignIn         = "Please sign in to checkout"
	msgEmptyCart      = "Your cart is empty"
	msgOrderFailed    = "Failed to place order"
	msgItemsFailed    = "Failed to load cart items"
	msgInternalError  = "Internal server error"
	msgMethodNotAllow = "Method not allowed"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("❌ writeJSON: Error encoding response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.APIErrorResponse{Message: message})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, handler string) {
	logrus.Warnf("❌ %s: Method not allowed: %s", handler, r.Method)
	writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllow)
}

// writeServiceError maps service errors to status codes. upstreamMessage is
// shown when the backend failed without explaining why.
func writeServiceError(w http.ResponseWriter, handler string, err error, upstreamMessage string) {
	log := logrus.WithError(err)

	var upstream *service.UpstreamError
	switch {
	case errors.Is(err, service.ErrInvalidKey):
		log.Warnf("❌ %s: Invalid key", handler)
		writeError(w, http.StatusBadRequest, service.ErrInvalidKey.Error())
	case errors.Is(err, service.ErrInvalidDate):
		log.Warnf("❌ %s: Invalid date", handler)
		writeError(w, http.StatusBadRequest, service.ErrInvalidDate.Error())
	case errors.Is(err, service.ErrNotSignedIn):
		log.Warnf("❌ %s: Not signed in", handler)
		writeError(w, http.StatusUnauthorized, msgSignIn)
	case errors.Is(err, service.ErrEmptyCart):
		log.Warnf("❌ %s: Empty cart", handler)
		writeError(w, http.StatusBadRequest, msgEmptyCart)
	case errors.Is(err, service.ErrNoImage):
		log.Warnf("❌ %s: No image", handler)
		writeError(w, http.StatusNotFound, service.ErrNoImage.Error())
	case errors.As(err, &upstream):
		log.Errorf("❌ %s: Backend error", handler)
		message := upstream.Message
		if message == "" {
			message = upstreamMessage
		}
		status := http.StatusBadGateway
		if upstream.StatusCode == http.StatusNotFound {
			status = http.StatusNotFound
		}
		writeError(w, status, message)
	case errors.Is(err, service.ErrUpstream):
		log.Errorf("❌ %s: Backend unreachable", handler)
		writeError(w, http.StatusBadGateway, upstreamMessage)
	default:
		log.Errorf("❌ %s: Internal error", handler)
		writeError(w, http.StatusInternalServerError, msgInternalError)
	}
}
