package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the pipeline counters exposed on /metrics.
type Metrics struct {
	QueriesTotal      *prometheus.CounterVec // by mode
	RetrievalFailures *prometheus.CounterVec // by source
	LiveFallbacks     prometheus.Counter
	SynthesisFailures prometheus.Counter
}

// NewMetrics registers the pipeline metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		QueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mediq_queries_total",
			Help: "Processed queries by pipeline mode.",
		}, []string{"mode"}),
		RetrievalFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mediq_retrieval_failures_total",
			Help: "Degraded retrieval calls by source.",
		}, []string{"source"}),
		LiveFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mediq_live_status_fallbacks_total",
			Help: "Live-status lookups that degraded to the placeholder record.",
		}),
		SynthesisFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mediq_synthesis_failures_total",
			Help: "Language-model synthesis calls that failed the request.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.QueriesTotal, m.RetrievalFailures, m.LiveFallbacks, m.SynthesisFailures)
	}
	return m
}

// ObserveRetrievalFailure is a nil-safe helper for degraded retrieval paths.
func (m *Metrics) ObserveRetrievalFailure(source string) {
	if m == nil {
		return
	}
	m.RetrievalFailures.WithLabelValues(source).Inc()
}

// ObserveLiveFallback is a nil-safe helper for placeholder live records.
func (m *Metrics) ObserveLiveFallback() {
	if m == nil {
		return
	}
	m.LiveFallbacks.Inc()
}
