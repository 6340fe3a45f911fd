package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CompositionMetrics records commit outcomes for composition sessions.
type CompositionMetrics struct {
	commits      *prometheus.CounterVec
	aboveCeiling *prometheus.CounterVec
	totals       *prometheus.HistogramVec
}

// NewCompositionMetrics registers the composition metrics on the provided registerer.
func NewCompositionMetrics(reg prometheus.Registerer) *CompositionMetrics {
	if reg == nil {
		return &CompositionMetrics{}
	}
	commits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "composition_commits_total",
		Help: "Committed compositions.",
	}, []string{"kind"})
	aboveCeiling := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "composition_commits_above_ceiling_total",
		Help: "Committed compositions whose monetary total exceeded the budget ceiling.",
	}, []string{"kind"})
	totals := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "composition_monetary_total",
		Help:    "Monetary totals of committed compositions.",
		Buckets: prometheus.ExponentialBuckets(50, 2, 10),
	}, []string{"kind"})
	reg.MustRegister(commits, aboveCeiling, totals)
	return &CompositionMetrics{
		commits:      commits,
		aboveCeiling: aboveCeiling,
		totals:       totals,
	}
}

// ObserveCommit records one committed composition.
func (m *CompositionMetrics) ObserveCommit(kind string, monetaryTotal float64, aboveCeiling bool) {
	if m == nil || m.commits == nil {
		return
	}
	m.commits.WithLabelValues(kind).Inc()
	m.totals.WithLabelValues(kind).Observe(monetaryTotal)
	if aboveCeiling {
		m.aboveCeiling.WithLabelValues(kind).Inc()
	}
}
