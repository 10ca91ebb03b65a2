package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/andrei-cloud/go_arqc/internal/metrics"
	"github.com/andrei-cloud/go_arqc/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// RequestIDHeader carries the request ID in every response.
const RequestIDHeader = "X-Request-Id"

// RequestID tags the request context with a fresh ID and a logger carrying it.
func RequestID(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		ctx, id := service.NewRequestContext(r.Context())
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	}

	return http.HandlerFunc(fn)
}

// AccessLog logs one structured event per request with the request context logger.
func AccessLog(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		event := zerolog.Ctx(r.Context()).Info()
		if ww.Status() >= http.StatusBadRequest {
			event = zerolog.Ctx(r.Context()).Warn()
		}
		event.
			Str("event", "http_request").
			Str("client_ip", r.RemoteAddr).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("served request")
	}

	return http.HandlerFunc(fn)
}

// Prometheus records request counts and latency grouped by the chi routing pattern.
func Prometheus(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		routePattern := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			routePattern = strings.Join(rctx.RoutePatterns, "")
			routePattern = strings.ReplaceAll(routePattern, "/*/", "/")
		}

		code := strconv.Itoa(ww.Status())
		status := http.StatusText(ww.Status())
		metrics.HTTPRequestCount.WithLabelValues(code, status, r.Method, routePattern).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(code, status, r.Method, routePattern).
			Observe(float64(time.Since(start).Nanoseconds()) / 1000000)
	}

	return http.HandlerFunc(fn)
}
