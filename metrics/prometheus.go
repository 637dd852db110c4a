package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder records query counts and latencies with the
// client_golang collectors, the same CounterVec/HistogramVec-per-
// operation pattern ClusterCockpit-cc-backend registers for its job
// query API.
type PrometheusRecorder struct {
	queries *prometheus.CounterVec
	results *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

// NewPrometheusRecorder builds a PrometheusRecorder and registers its
// collectors against reg. Pass prometheus.DefaultRegisterer for the
// global registry.
func NewPrometheusRecorder(reg prometheus.Registerer, namespace string) *PrometheusRecorder {
	r := &PrometheusRecorder{
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Number of tree queries by kind.",
		}, []string{"kind"}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_results_total",
			Help:      "Number of entries returned by tree queries, by kind.",
		}, []string{"kind"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Tree query latency by kind.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}
	reg.MustRegister(r.queries, r.results, r.latency)
	return r
}

func (r *PrometheusRecorder) ObserveQuery(kind string, results int, took time.Duration) {
	r.queries.WithLabelValues(kind).Inc()
	r.results.WithLabelValues(kind).Add(float64(results))
	r.latency.WithLabelValues(kind).Observe(took.Seconds())
}
