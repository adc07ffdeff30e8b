package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/shopcart-backend/pkg/enums"
)

// Outcome labels used by CartMetrics.
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeConflict = "conflict"
)

// CartMetrics records cart engine operations. A nil *CartMetrics is a valid
// no-op recorder.
type CartMetrics struct {
	duration   *prometheus.HistogramVec
	operations *prometheus.CounterVec
	conflicts  *prometheus.CounterVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shopcart",
		Name:      "cart_operation_duration_seconds",
		Help:      "Duration of cart operations in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopcart",
		Name:      "cart_operations_total",
		Help:      "Cart operations by outcome.",
	}, []string{"operation", "outcome"})
	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopcart",
		Name:      "cart_conflicts_total",
		Help:      "Cart writes rejected by the optimistic version check.",
	}, []string{"operation"})
	reg.MustRegister(duration, operations, conflicts)
	return &CartMetrics{
		duration:   duration,
		operations: operations,
		conflicts:  conflicts,
	}
}

// Observe records the duration and outcome of a single operation attempt.
func (c *CartMetrics) Observe(op enums.CartOperation, outcome string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	label := normalizeLabel(op.String())
	c.duration.WithLabelValues(label).Observe(duration.Seconds())
	c.operations.WithLabelValues(label, normalizeLabel(outcome)).Inc()
}

// IncConflict counts a version conflict for the operation.
func (c *CartMetrics) IncConflict(op enums.CartOperation) {
	if c == nil || c.conflicts == nil {
		return
	}
	c.conflicts.WithLabelValues(normalizeLabel(op.String())).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
