package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the calculation module.
// Tracks calculation counts by outcome and pricing path durations.
type Metrics struct {
	Calculations        *prometheus.CounterVec
	CalculationDuration prometheus.Histogram
}

// New creates a new Metrics instance with all calculation module metrics registered.
func New() *Metrics {
	return &Metrics{
		Calculations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "quotient_calculations_total",
			Help: "Total number of price calculations by outcome",
		}, []string{"outcome"}),
		CalculationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "quotient_calculation_duration_seconds",
			Help:    "Duration of price calculations (request critical path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementCalculation records a calculation attempt with its outcome.
func (m *Metrics) IncrementCalculation(outcome string) {
	m.Calculations.WithLabelValues(outcome).Inc()
}

// ObserveCalculation records the duration of a price calculation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveCalculation(start time.Time) {
	m.CalculationDuration.Observe(time.Since(start).Seconds())
}
