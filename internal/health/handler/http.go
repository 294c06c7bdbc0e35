// Package handler serves readiness/liveness for Kubernetes, load
// balancers, and CI.
package handler

import (
	"context"
	"net/http"
	"time"

	"blog-backend/internal/platform/httpx"
)

// Pinger reports backing-store reachability (e.g. *sql.DB).
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	pinger Pinger
}

// New returns a health handler. pinger may be nil; then the DB check is skipped.
func New(pinger Pinger) *Handler {
	return &Handler{pinger: pinger}
}

type healthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}

// ServeHTTP reports 200 when the service and its database are
// reachable, 503 otherwise.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := healthStatus{Status: "ok"}
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.pinger.PingContext(ctx); err != nil {
			status.Status = "degraded"
			status.Database = "unreachable"
			httpx.WriteError(w, http.StatusServiceUnavailable, "Unhealthy", "database is unreachable")
			return
		}
		status.Database = "ok"
	}
	httpx.WriteSuccess(w, http.StatusOK, "Healthy", status)
}
