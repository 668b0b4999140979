package handler

import (
	"context"
	"net/http"
	"time"

	"leavedesk-backend/internal/ports"
	"github.com/go-chi/chi/v5"
)

// HealthHandler reports readiness of the storage backend.
type HealthHandler struct {
	Store ports.HealthChecker
}

func (h HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.handleHealth)
}

func (h HealthHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, code := "ok", http.StatusOK
	if err := h.Store.Health(ctx); err != nil {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	writeRawJSON(w, code, map[string]string{"status": status})
}
