package metrics

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Trip transition outcomes.
const (
	TransitionConfirmed = "confirmed"
	TransitionRejected  = "rejected"
	TransitionFailed    = "failed"
)

// Refresh outcomes recorded by the API client.
const (
	RefreshSucceeded = "success"
	RefreshFailed    = "failure"
	RefreshSkipped   = "reused"
)

var (
	backendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleet_backend_requests_total",
			Help: "Requests sent to the fleet backend, by method and status code.",
		},
		[]string{"method", "status"},
	)

	backendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fleet_backend_request_duration_seconds",
			Help:    "Fleet backend request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	tokenRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleet_token_refresh_total",
			Help: "Access token refresh attempts, by outcome.",
		},
		[]string{"outcome"},
	)

	queuedRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fleet_refresh_queued_requests_total",
		Help: "Requests that waited for an in-flight token refresh.",
	})

	tripTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleet_trip_transitions_total",
			Help: "Trip lifecycle actions, by action and outcome.",
		},
		[]string{"action", "outcome"},
	)

	registerOnce sync.Once
)

// Init registers the collectors in the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(backendRequestsTotal, backendRequestDuration, tokenRefreshTotal, queuedRequestsTotal, tripTransitionsTotal)
	})
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveBackendRequest records one completed backend call. status 0 means a transport error.
func ObserveBackendRequest(method string, status int, seconds float64) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	backendRequestsTotal.WithLabelValues(method, label).Inc()
	backendRequestDuration.WithLabelValues(method).Observe(seconds)
}

// ObserveRefresh records a refresh attempt outcome.
func ObserveRefresh(outcome string) {
	tokenRefreshTotal.WithLabelValues(outcome).Inc()
}

// ObserveQueued records a request parked behind an in-flight refresh.
func ObserveQueued() {
	queuedRequestsTotal.Inc()
}

// ObserveTransition records a trip lifecycle action. Rejected means it never
// left the process; failed means the backend refused it or was unreachable.
func ObserveTransition(action, outcome string) {
	tripTransitionsTotal.WithLabelValues(action, outcome).Inc()
}
