// Package metrics holds the Prometheus collectors of the cryptogram service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const ApplicationName = "go_arqc"

var constLabels = prometheus.Labels{"service": ApplicationName}

var CryptogramCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name:        "arqc_cryptograms_total",
		Help:        "cryptogram generations by scheme, CVN and result (ok/error)",
		ConstLabels: constLabels,
	},
	[]string{"scheme", "cvn", "result"},
)

var VerificationCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name:        "arqc_verifications_total",
		Help:        "cryptogram verifications by scheme and result (match/mismatch/error)",
		ConstLabels: constLabels,
	},
	[]string{"scheme", "result"},
)

var KeyDerivationCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name:        "arqc_key_derivations_total",
		Help:        "session key derivations by scheme, CVN and result (ok/error)",
		ConstLabels: constLabels,
	},
	[]string{"scheme", "cvn", "result"},
)

var CommandCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name:        "arqc_commands_total",
		Help:        "commands by transport (tcp/http), command and response code",
		ConstLabels: constLabels,
	},
	[]string{"transport", "command", "code"},
)

var CommandDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:        "arqc_command_duration_ms",
		Help:        "command duration in milliseconds by transport and command",
		ConstLabels: constLabels,
		Buckets:     []float64{0.5, 1, 2, 5, 10, 25, 50, 100, 250},
	},
	[]string{"transport", "command"},
)

var ActiveConnections = prometheus.NewGauge(prometheus.GaugeOpts{
	Name:        "arqc_tcp_active_connections",
	Help:        "open TCP command connections",
	ConstLabels: constLabels,
})

var HTTPRequestCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name:        "arqc_http_request_total",
		Help:        "HTTP requests count partitioned by numeric status code, text status code, method and HTTP path (chi route)",
		ConstLabels: constLabels,
	},
	[]string{"code", "status_code", "method", "path"},
)

var HTTPRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:        "arqc_http_request_duration_ms",
		Help:        "Request duration partitioned by numeric status code, text status code, method and HTTP path (chi route)",
		ConstLabels: constLabels,
		Buckets:     []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	},
	[]string{"code", "status_code", "method", "path"},
)

var registerOnce sync.Once

// Register adds all collectors to the default registry. Repeated calls are no-ops.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			CryptogramCount,
			VerificationCount,
			KeyDerivationCount,
			CommandCount,
			CommandDuration,
			ActiveConnections,
			HTTPRequestCount,
			HTTPRequestDuration,
		)
	})
}

// Result returns the result label for err.
func Result(err error) string {
	if err != nil {
		return "error"
	}

	return "ok"
}
