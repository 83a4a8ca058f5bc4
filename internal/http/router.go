// Package http assembles the service's router.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"recruiterrisk/internal/platform/middleware"
	"recruiterrisk/internal/trust/handler"
	"recruiterrisk/internal/trust/service"
)

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// New assembles the full router: middleware chain, trust routes, /healthz
// and /metrics.
func New(svc *service.Service, logger *slog.Logger, registry *prometheus.Registry, checks map[string]HealthChecker) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)

	handler.New(svc, logger).Register(r)

	r.Get("/healthz", healthz(checks))
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return r
}

func healthz(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		detail := make(map[string]string, len(checks)+1)
		detail["status"] = "ok"

		for name, check := range checks {
			if err := check.Health(r.Context()); err != nil {
				status = http.StatusServiceUnavailable
				detail["status"] = "degraded"
				detail[name] = err.Error()
			} else {
				detail[name] = "ok"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(detail)
	}
}
