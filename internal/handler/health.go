package handler

import (
	"net/http"

	"github.com/slotjack/wheelhouse/internal/database"
	"github.com/slotjack/wheelhouse/internal/logger"
)

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	db database.Pool
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db database.Pool) *HealthHandler {
	return &HealthHandler{db: db}
}

// HandleHealthz reports process liveness
func (h *HealthHandler) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleReadyz reports readiness; fails if the database is unreachable
func (h *HealthHandler) HandleReadyz(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			logger.FromContext(r.Context()).Error("Readiness check failed", "error", err)
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
