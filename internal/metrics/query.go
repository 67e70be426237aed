package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Query kinds.
const (
	KindStructured      = "structured"
	KindNaturalLanguage = "natural_language"
)

// Query outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeInvalid     = "invalid"
	OutcomeConflict    = "conflict"
	OutcomeUnparseable = "unparseable"
)

// String store Prometheus metrics.
var (
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "strindex",
			Name:      "queries_total",
			Help:      "Filter queries by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	QueryMatches = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "strindex",
			Name:      "query_matches",
			Help:      "Number of records returned per successful query",
			Buckets:   []float64{0, 1, 5, 10, 50, 100, 500, 1000},
		},
		[]string{"kind"},
	)

	RecordsStored = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "strindex",
			Name:      "records",
			Help:      "Number of strings currently stored",
		},
	)
)

var registerQueryOnce sync.Once

// RegisterQueryMetrics registers the query and store metrics. Called from main; repeated calls are no-ops.
func RegisterQueryMetrics() {
	registerQueryOnce.Do(func() {
		prometheus.MustRegister(QueriesTotal, QueryMatches, RecordsStored)
	})
}
