package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger is implemented by the export stores.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	store   Pinger
	entries int
}

// NewHealthHandler creates a new HealthHandler. store may be nil.
func NewHealthHandler(store Pinger, entries int) *HealthHandler {
	return &HealthHandler{
		store:   store,
		entries: entries,
	}
}

// Liveness returns 200 if the service is alive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness returns 200 if the service is ready to accept traffic.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if h.entries == 0 {
		writeError(w, http.StatusServiceUnavailable, "ledger not loaded", "")
		return
	}

	store := "disabled"
	if h.store != nil {
		if err := h.store.Ping(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, "export store unhealthy", err.Error())
			return
		}
		store = "ok"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ready",
		"ledger":       h.entries,
		"export_store": store,
	})
}
