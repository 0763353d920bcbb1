package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records order placement and cart mutation activity.
type CheckoutMetrics struct {
	placed        prometheus.Counter
	failures      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	cartMutations *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	placed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_placed_total",
		Help: "Orders committed by the placement flow.",
	})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_order_placement_failures_total",
		Help: "Order placements rejected or rolled back, by error code.",
	}, []string{"reason"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_order_placement_duration_seconds",
		Help:    "Duration of order placement in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_mutations_total",
		Help: "Cart writes by operation and backing store.",
	}, []string{"op", "store"})
	reg.MustRegister(placed, failures, duration, cartMutations)
	return &CheckoutMetrics{
		placed:        placed,
		failures:      failures,
		duration:      duration,
		cartMutations: cartMutations,
	}
}

// ObservePlacement records the outcome of one placement attempt. An empty
// reason counts as a success.
func (c *CheckoutMetrics) ObservePlacement(reason string, elapsed time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	outcome := "success"
	if reason != "" {
		outcome = "failure"
		c.failures.WithLabelValues(normalizeLabel(reason)).Inc()
	} else {
		c.placed.Inc()
	}
	c.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// IncCartMutation counts a cart write.
func (c *CheckoutMetrics) IncCartMutation(op, store string) {
	if c == nil || c.cartMutations == nil {
		return
	}
	c.cartMutations.WithLabelValues(normalizeLabel(op), normalizeLabel(store)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
