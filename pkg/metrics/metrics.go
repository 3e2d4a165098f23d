package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tripnotes"

// Outcome labels for generated plans.
const (
	OutcomeModel    = "model"
	OutcomeFallback = "fallback"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// PlanMetrics groups the collectors of the generation pipeline.
type PlanMetrics struct {
	generations     *prometheus.CounterVec
	streamDuration  *prometheus.HistogramVec
	streamBytes     prometheus.Histogram
	outdatedPlans   prometheus.Counter
	compareRequests *prometheus.CounterVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer
// in the server and a fresh registry in tests.
func New(reg prometheus.Registerer) *PlanMetrics {
	f := promauto.With(reg)
	return &PlanMetrics{
		generations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plan_generations_total",
			Help:      "Plan generation requests by outcome.",
		}, []string{"outcome"}),
		streamDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "completion_stream_duration_seconds",
			Help:      "Time spent reading the completion stream.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 90, 120},
		}, []string{"provider"}),
		streamBytes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "completion_stream_bytes",
			Help:      "Size of the concatenated completion text.",
			Buckets:   prometheus.ExponentialBuckets(256, 2, 10),
		}),
		outdatedPlans: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plans_outdated_total",
			Help:      "Plans moved to outdated after a configuration change.",
		}),
		compareRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plan_comparisons_total",
			Help:      "Plan comparisons by cache result.",
		}, []string{"cache"}),
	}
}

func (m *PlanMetrics) ObserveGeneration(outcome string) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(outcome).Inc()
}

func (m *PlanMetrics) ObserveStream(provider string, d time.Duration, bytes int) {
	if m == nil {
		return
	}
	m.streamDuration.WithLabelValues(provider).Observe(d.Seconds())
	m.streamBytes.Observe(float64(bytes))
}

func (m *PlanMetrics) AddOutdated(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.outdatedPlans.Add(float64(n))
}

func (m *PlanMetrics) ObserveCompare(cacheHit bool) {
	if m == nil {
		return
	}
	label := "miss"
	if cacheHit {
		label = "hit"
	}
	m.compareRequests.WithLabelValues(label).Inc()
}
