package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/dukerupert/vitrine/internal/handler"
	"github.com/dukerupert/vitrine/internal/middleware"
	"github.com/dukerupert/vitrine/internal/router"
)

const healthCheckTimeout = 2 * time.Second

// RegisterSystemRoutes registers metrics and health endpoints.
func RegisterSystemRoutes(r *router.Router, deps SystemDeps) {
	if deps.MetricsHandler != nil {
		// Metrics endpoint (no auth required, but should be protected in production via firewall)
		r.Handle("GET", "/metrics", deps.MetricsHandler)
	}

	r.Get("/healthz", healthHandler(deps.HealthChecks))
}

// healthHandler reports 200 when every check passes and 503 with the
// failing checks otherwise.
func healthHandler(checks []HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), healthCheckTimeout)
		defer cancel()

		failed := map[string]string{}
		for _, c := range checks {
			if err := c.Check(ctx); err != nil {
				middleware.GetLogger(req.Context()).Warn("health check failed",
					"check", c.Name,
					"error", err,
				)
				failed[c.Name] = err.Error()
			}
		}

		if len(failed) > 0 {
			handler.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status": "unavailable",
				"checks": failed,
			})
			return
		}

		handler.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
