package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks registration outcomes and the latency of the submit path.
type Metrics struct {
	Created          prometheus.Counter
	Rejected         *prometheus.CounterVec
	RegisterDuration prometheus.Histogram
}

// New registers the registration metrics with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Created: f.NewCounter(prometheus.CounterOpts{
			Name: "eventreg_registrations_created_total",
			Help: "Total number of registrations accepted",
		}),
		Rejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "eventreg_registrations_rejected_total",
			Help: "Registrations rejected, by reason",
		}, []string{"reason"}),
		RegisterDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "eventreg_register_duration_seconds",
			Help:    "Duration of Register operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementCreated records an accepted registration.
func (m *Metrics) IncrementCreated() {
	m.Created.Inc()
}

// IncrementRejected records a rejected registration.
func (m *Metrics) IncrementRejected(reason string) {
	m.Rejected.WithLabelValues(reason).Inc()
}

// ObserveRegister records the duration of a Register call started at start.
func (m *Metrics) ObserveRegister(start time.Time) {
	m.RegisterDuration.Observe(time.Since(start).Seconds())
}
