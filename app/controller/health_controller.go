package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Pinger is anything whose backing store can be checked.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController answers liveness checks
type HealthController struct {
	store Pinger
}

// NewHealthController creates a new HealthController
func NewHealthController(store Pinger) *HealthController {
	return &HealthController{store: store}
}

// Ping handles GET /ping
// Example response: {"status": "ok"}
func (c *HealthController) Ping(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, "Ping")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := c.store.Ping(ctx); err != nil {
		logrus.WithError(err).Error("❌ Ping: storage unavailable")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "storage unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
