package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// CheckoutMetrics records outcomes of the checkout flow.
type CheckoutMetrics struct {
	orders     prometheus.Counter
	failures   *prometheus.CounterVec
	orderTotal prometheus.Histogram
}

// NewCheckoutMetrics registers checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	orders := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_orders_created_total",
		Help: "Orders successfully created at checkout.",
	})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failures_total",
		Help: "Failed checkout attempts by reason.",
	}, []string{"reason"})
	orderTotal := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_order_total",
		Help:    "Final order totals after discounts.",
		Buckets: []float64{10, 25, 50, 100, 250, 500, 1000},
	})
	reg.MustRegister(orders, failures, orderTotal)
	return &CheckoutMetrics{
		orders:     orders,
		failures:   failures,
		orderTotal: orderTotal,
	}
}

// IncOrderCreated increments the created-orders counter and records the total.
func (c *CheckoutMetrics) IncOrderCreated(total decimal.Decimal) {
	if c == nil || c.orders == nil {
		return
	}
	c.orders.Inc()
	f, _ := total.Float64()
	c.orderTotal.Observe(f)
}

// IncFailure increments the failure counter for the given reason.
func (c *CheckoutMetrics) IncFailure(reason string) {
	if c == nil || c.failures == nil {
		return
	}
	c.failures.WithLabelValues(normalizeLabel(reason)).Inc()
}
