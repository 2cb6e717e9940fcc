// Package monitoring collects client and dev-server counters and exposes
// them in Prometheus format.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the collectors the app records against.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests     *prometheus.CounterVec
	ordersSubmitted *prometheus.CounterVec
	cartMutations   *prometheus.CounterVec
}

// NewMetrics creates the collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tiffin_api_requests_total",
			Help: "API requests by path and outcome.",
		}, []string{"path", "outcome"}),
		ordersSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tiffin_orders_submitted_total",
			Help: "Checkout submissions by path (cart or booking) and result.",
		}, []string{"source", "result"}),
		cartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tiffin_cart_mutations_total",
			Help: "Cart mutations by operation.",
		}, []string{"op"}),
	}

	m.registry.MustRegister(m.apiRequests, m.ordersSubmitted, m.cartMutations)
	return m
}

// Registry returns the backing registry for promhttp exposure.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// CountRequest records one API request outcome.
func (m *Metrics) CountRequest(path, outcome string) {
	m.apiRequests.WithLabelValues(path, outcome).Inc()
}

// CountSubmission records one checkout attempt result.
func (m *Metrics) CountSubmission(source, result string) {
	m.ordersSubmitted.WithLabelValues(source, result).Inc()
}

// CountCartOp records one cart mutation.
func (m *Metrics) CountCartOp(op string) {
	m.cartMutations.WithLabelValues(op).Inc()
}
