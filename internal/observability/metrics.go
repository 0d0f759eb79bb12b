package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds the Prometheus counters and histograms for one ETL run.
// The job runs once and exits, so instead of serving /metrics it pushes the
// final counts to a Pushgateway when one is configured.
type Metrics struct {
	registry *prometheus.Registry

	SourceFetches *prometheus.CounterVec // labels: source={oni,snowfall}, outcome={success,error,empty}
	CacheLookups  *prometheus.CounterVec // labels: dataset, result={hit,miss}
	ParseErrors   *prometheus.CounterVec // labels: source
	RowsProduced  *prometheus.GaugeVec   // labels: table={enso,snowfall,combined}
	StageDuration *prometheus.HistogramVec
}

// NewMetrics creates run metrics on a private registry; a private registry
// keeps repeated construction in tests from panicking with "already
// registered" and is what gets pushed at the end of the run.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SourceFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snow_etl",
			Name:      "source_fetches_total",
			Help:      "Source fetch attempts by source and outcome.",
		}, []string{"source", "outcome"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snow_etl",
			Name:      "cache_lookups_total",
			Help:      "Flat-file cache lookups by dataset and result.",
		}, []string{"dataset", "result"}),
		ParseErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snow_etl",
			Name:      "parse_errors_total",
			Help:      "Responses rejected during parsing or schema validation.",
		}, []string{"source"}),
		RowsProduced: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "snow_etl",
			Name:      "rows_produced",
			Help:      "Rows in each persisted table at the end of the run.",
		}, []string{"table"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "snow_etl",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 180},
		}, []string{"stage"}),
	}

	m.registry.MustRegister(
		m.SourceFetches,
		m.CacheLookups,
		m.ParseErrors,
		m.RowsProduced,
		m.StageDuration,
	)

	return m
}

// NewMetricsForTesting is an alias kept for symmetry with service repos
// where the production constructor uses the default registry.
func NewMetricsForTesting() *Metrics { return NewMetrics() }

// Push sends the run's metrics to a Pushgateway. A best-effort operation:
// callers log the error and carry on, since the data files are the real
// output of a run.
func (m *Metrics) Push(gatewayURL, job string) error {
	if gatewayURL == "" {
		return nil
	}
	if err := push.New(gatewayURL, job).Gatherer(m.registry).Push(); err != nil {
		return fmt.Errorf("push metrics to %s: %w", gatewayURL, err)
	}
	return nil
}
