// Package metrics defines the custom Prometheus metrics of the admin front
// end. Metrics are registered with the default registry on import through
// promauto and exposed on /metrics next to echoprometheus' HTTP metrics.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vetadmin"

// ── Gateway metrics ───────────────────────────────────────────────────────────

// GatewayRequestsTotal counts calls made to the clinic backend.
// Labels:
//   - method: HTTP method
//   - status_class: "2xx", "4xx", "5xx" or "error" when no response arrived
var GatewayRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_requests_total",
		Help:      "Total number of requests sent to the clinic backend.",
	},
	[]string{"method", "status_class"},
)

// GatewayRequestDuration measures backend round trips.
var GatewayRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_request_duration_seconds",
		Help:      "Duration of requests sent to the clinic backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// SessionsExpiredTotal counts 401 answers that tore a session down.
var SessionsExpiredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_expired_total",
		Help:      "Total number of sessions cleared after the backend answered 401.",
	},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// PasswordChangesTotal counts change password submissions.
// Label:
//   - result: "success", "rejected" (local validation) or "failure"
var PasswordChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_changes_total",
		Help:      "Total number of password change attempts, by result.",
	},
	[]string{"result"},
)

// StatusClass maps an HTTP status to its "Nxx" label.
func StatusClass(status int) string {
	if status < 100 || status > 599 {
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}
