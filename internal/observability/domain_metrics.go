package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	queriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "convo_queries_total",
			Help: "Total number of SQL executions by outcome.",
		},
		[]string{"outcome"},
	)
	queryDurationMs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "convo_query_duration_ms",
			Help:    "SQL execution latency in milliseconds.",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		},
	)
	translationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "convo_translations_total",
			Help: "Total number of NL-to-SQL translations by provider and outcome.",
		},
		[]string{"provider", "outcome"},
	)
	translationViewReuseTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "convo_translation_view_reuse_total",
			Help: "Translations answered verbatim by a catalog view.",
		},
	)
	viewExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "convo_view_executions_total",
			Help: "Total number of catalog view executions by view name.",
		},
		[]string{"view"},
	)
)

func init() {
	prometheus.MustRegister(
		queriesTotal,
		queryDurationMs,
		translationsTotal,
		translationViewReuseTotal,
		viewExecutionsTotal,
	)
}

func ObserveQuery(outcome string, elapsed time.Duration) {
	queriesTotal.WithLabelValues(outcome).Inc()
	queryDurationMs.Observe(float64(elapsed.Milliseconds()))
}

func ObserveTranslation(provider, outcome string, usedView bool) {
	translationsTotal.WithLabelValues(provider, outcome).Inc()
	if usedView {
		translationViewReuseTotal.Inc()
	}
}

func ObserveViewExecution(view string) {
	viewExecutionsTotal.WithLabelValues(view).Inc()
}
