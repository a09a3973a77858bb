package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	translationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "queryloom_translations_total",
			Help: "Total number of natural-language translation requests by outcome.",
		},
		[]string{"outcome"},
	)
	sanitizerRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "queryloom_sanitizer_rejections_total",
			Help: "Total number of generated statements rejected by the sanitizer, by rule.",
		},
		[]string{"rule"},
	)
	queryDurationMs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "queryloom_query_duration_ms",
			Help:    "Sanitized query execution latency in milliseconds.",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		},
	)
	schemaRefreshesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "queryloom_schema_refreshes_total",
			Help: "Total number of schema snapshot rebuilds.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		translationsTotal,
		sanitizerRejectionsTotal,
		queryDurationMs,
		schemaRefreshesTotal,
	)
}

func ObserveTranslation(outcome string) {
	translationsTotal.WithLabelValues(outcome).Inc()
}

func ObserveSanitizerRejection(rule string) {
	sanitizerRejectionsTotal.WithLabelValues(rule).Inc()
}

func ObserveQueryDuration(elapsed time.Duration) {
	queryDurationMs.Observe(float64(elapsed.Milliseconds()))
}

func ObserveSchemaRefresh() {
	schemaRefreshesTotal.Inc()
}
