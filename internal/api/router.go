package api

import (
	"net/http"

	"github.com/andrei-cloud/go_arqc/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the HTTP handler with the API routes, a liveness probe and,
// when withMetrics is set, the Prometheus middleware and /metrics endpoint.
func NewRouter(withMetrics bool) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(RequestID)
	router.Use(AccessLog)
	if withMetrics {
		metrics.Register()
		router.Use(Prometheus)
		router.Handle("/metrics", promhttp.Handler())
	}

	router.Get("/-/live", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	NewAPI().AppendRoutes(router)

	return router
}
