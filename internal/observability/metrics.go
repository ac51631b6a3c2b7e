package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/i474232898/weather-notification-service/internal/weather"
)

const namespace = "weather_notifier"

// Metrics holds the Prometheus collectors for the service.
type Metrics struct {
	// Notification scan.
	ScanRuns             *prometheus.CounterVec // labels: outcome={completed,failed}
	ScanUserFailures     *prometheus.CounterVec // labels: stage={decode,fetch,payload,persist,publish}
	ScanDuration         prometheus.Histogram
	NotificationsCreated prometheus.Counter

	// Weather lookups.
	CacheLookups     *prometheus.CounterVec // labels: kind={current,forecast}, result={hit,miss}
	UpstreamRequests *prometheus.CounterVec // labels: endpoint, outcome={success,error}

	// HTTP surface.
	HTTPRequests *prometheus.CounterVec   // labels: method, route, status
	HTTPDuration *prometheus.HistogramVec // labels: method, route
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ScanRuns,
		m.ScanUserFailures,
		m.ScanDuration,
		m.NotificationsCreated,
		m.CacheLookups,
		m.UpstreamRequests,
		m.HTTPRequests,
		m.HTTPDuration,
	)
	return m
}

// NewMetricsForTesting creates unregistered metrics so tests can build as many as they need.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ScanRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scan_runs_total",
			Help:      "Notification scan runs by outcome.",
		}, []string{"outcome"}),
		ScanUserFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scan_user_failures_total",
			Help:      "Per-user failures inside a notification scan, by stage.",
		}, []string{"stage"}),
		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Duration of a complete notification scan.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		NotificationsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_created_total",
			Help:      "Notifications written by the scan.",
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Response cache lookups by query kind and result.",
		}, []string{"kind", "result"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Weather provider requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// ObserveCache implements weather.CacheObserver.
func (m *Metrics) ObserveCache(kind weather.QueryKind, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(string(kind), result).Inc()
}

// ObserveUpstream records the outcome of a provider call.
func (m *Metrics) ObserveUpstream(endpoint string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.UpstreamRequests.WithLabelValues(endpoint, outcome).Inc()
}

// ObserveHTTP records a served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, seconds float64) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(seconds)
}
