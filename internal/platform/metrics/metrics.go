package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP-level Prometheus metrics.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	RequestsTotal   *prometheus.CounterVec
}

// New creates and registers the HTTP metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "eventreg_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "eventreg_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
	}
}

// ObserveRequest records one finished request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
