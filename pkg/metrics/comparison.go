package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ComparisonMetrics records the outcome of cart price comparisons.
type ComparisonMetrics struct {
	duration    *prometheus.HistogramVec
	success     *prometheus.CounterVec
	failure     *prometheus.CounterVec
	unavailable *prometheus.CounterVec
}

// NewComparisonMetrics registers the comparison metrics on the provided registerer.
func NewComparisonMetrics(reg prometheus.Registerer) *ComparisonMetrics {
	if reg == nil {
		return &ComparisonMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "comparison_duration_seconds",
		Help:    "Duration of per-supermarket cart pricing in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"supermarket"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "comparison_success",
		Help: "Supermarket sub-calculations that produced a priced result.",
	}, []string{"supermarket"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "comparison_failure",
		Help: "Supermarket sub-calculations that failed outright.",
	}, []string{"supermarket"})
	unavailable := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "comparison_data_unavailable",
		Help: "Supermarket sub-calculations skipped because pricing data was unreachable.",
	}, []string{"supermarket"})
	reg.MustRegister(duration, success, failure, unavailable)
	return &ComparisonMetrics{
		duration:    duration,
		success:     success,
		failure:     failure,
		unavailable: unavailable,
	}
}

// ObserveDuration records the sub-calculation duration for the named supermarket.
func (c *ComparisonMetrics) ObserveDuration(supermarket string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(supermarket)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named supermarket.
func (c *ComparisonMetrics) IncSuccess(supermarket string) {
	if c == nil || c.success == nil {
		return
	}
	c.success.WithLabelValues(normalizeLabel(supermarket)).Inc()
}

// IncFailure increments the failure counter for the named supermarket.
func (c *ComparisonMetrics) IncFailure(supermarket string) {
	if c == nil || c.failure == nil {
		return
	}
	c.failure.WithLabelValues(normalizeLabel(supermarket)).Inc()
}

// IncDataUnavailable increments the unreachable-data counter for the named supermarket.
func (c *ComparisonMetrics) IncDataUnavailable(supermarket string) {
	if c == nil || c.unavailable == nil {
		return
	}
	c.unavailable.WithLabelValues(normalizeLabel(supermarket)).Inc()
}

func normalizeLabel(supermarket string) string {
	if supermarket == "" {
		return "unknown"
	}
	return supermarket
}
