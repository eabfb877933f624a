package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus instruments of the ledger core.
type Metrics struct {
	// Registry owns the instruments below. Exposed so the /metrics
	// endpoint can serve it.
	Registry *prometheus.Registry

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	suspiciousFlagged prometheus.Counter
}

// NewMetrics creates a dedicated registry and registers all instruments in
// it. A private registry avoids "duplicate collector" panics when NewMetrics
// is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		operationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_operations_total",
				Help: "Engine operations by kind and outcome.",
			},
			[]string{"operation", "outcome"},
		),
		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_operation_duration_seconds",
				Help:    "Duration of engine operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		suspiciousFlagged: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ledger_suspicious_magnitude_flagged_total",
				Help: "Writes flagged for reaching the safety ceiling.",
			},
		),
	}
}

// ObserveOperation records one finished engine operation.
func (m *Metrics) ObserveOperation(operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.operationsTotal.WithLabelValues(operation, outcome).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// FlagSuspicious counts a write that reached the safety ceiling under the
// "flag" policy.
func (m *Metrics) FlagSuspicious() {
	if m == nil {
		return
	}
	m.suspiciousFlagged.Inc()
}
