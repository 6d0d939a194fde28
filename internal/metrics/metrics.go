// Package metrics holds the Prometheus instruments recorded by the dispatcher.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds all Prometheus metrics for indicator requests.
type Metrics struct {
	CalculationsTotal *prometheus.CounterVec   // labels: indicator, outcome
	CalculationDur    *prometheus.HistogramVec // labels: indicator
	ErrorsTotal       *prometheus.CounterVec   // labels: code
	FetchDur          prometheus.Histogram
	BarsFetched       prometheus.Counter
}

// New creates the metrics and registers them with reg. A nil reg leaves them
// unregistered, which is what tests and one-shot CLI runs want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CalculationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "goquant_calculations_total",
			Help: "Indicator calculations by indicator and outcome",
		}, []string{"indicator", "outcome"}),
		CalculationDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "goquant_calculation_duration_seconds",
			Help:    "Indicator calculation latency",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}, []string{"indicator"}),
		ErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "goquant_errors_total",
			Help: "Failed requests by error code",
		}, []string{"code"}),
		FetchDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "goquant_fetch_duration_seconds",
			Help:    "Market data fetch latency",
			Buckets: prometheus.DefBuckets,
		}),
		BarsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "goquant_bars_fetched_total",
			Help: "Total bars returned by market data sources",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.CalculationsTotal,
			m.CalculationDur,
			m.ErrorsTotal,
			m.FetchDur,
			m.BarsFetched,
		)
	}
	return m
}

// ObserveCalculation records one calculation of indicator that took d.
func (m *Metrics) ObserveCalculation(indicator string, d time.Duration, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.CalculationsTotal.WithLabelValues(indicator, outcome).Inc()
	m.CalculationDur.WithLabelValues(indicator).Observe(d.Seconds())
}

// ObserveFetch records a market data fetch returning n bars.
func (m *Metrics) ObserveFetch(d time.Duration, n int) {
	m.FetchDur.Observe(d.Seconds())
	m.BarsFetched.Add(float64(n))
}

// ObserveError counts a failed request by its error code.
func (m *Metrics) ObserveError(code string) {
	m.ErrorsTotal.WithLabelValues(code).Inc()
}
