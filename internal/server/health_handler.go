package server

import (
	"context"
	"log"
	"net/http"
)

// Pinger is the readiness probe surface, satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler serves GET /healthz for Kubernetes, load balancers, and CI.
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler returns a HealthHandler. db may be nil; then the DB ping is skipped.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check reports 200 when the process is up and the database (if wired)
// answers a ping, 503 otherwise.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			log.Printf("server: healthz db ping: %v", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
