package dbaccess

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK         = "ok"
	outcomeSuppressed = "suppressed"
	outcomeError      = "error"
)

// Metrics counts repository calls per operation and outcome. A nil *Metrics records nothing.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the collectors with reg. A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		calls: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dispensing",
				Subsystem: "dbaccess",
				Name:      "calls_total",
				Help:      "Total number of repository calls by outcome",
			},
			[]string{"operation", "outcome"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "dispensing",
				Subsystem: "dbaccess",
				Name:      "call_duration_seconds",
				Help:      "Repository call duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
			},
			[]string{"operation"},
		),
	}
}

func (m *Metrics) observe(op, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(op, outcome).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}
