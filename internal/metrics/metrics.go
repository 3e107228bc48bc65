// Package metrics exposes Prometheus instrumentation for the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pawcart"

// Metrics holds the service's collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	requests          *prometheus.CounterVec
	latency           *prometheus.HistogramVec
	cartMutations     *prometheus.CounterVec
	cartConflicts     prometheus.Counter
	couponApplication *prometheus.CounterVec
	checkouts         *prometheus.CounterVec
	gatherer          prometheus.Gatherer
}

// New creates the collectors and registers them with reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"route", "method"}),
		cartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "mutations_total",
			Help:      "Cart mutations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		cartConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "version_conflicts_total",
			Help:      "Optimistic version conflicts seen while saving carts.",
		}),
		couponApplication: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "coupon",
			Name:      "applications_total",
			Help:      "Coupon application attempts by result code.",
		}, []string{"result"}),
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "orders_total",
			Help:      "Checkout attempts by result code.",
		}, []string{"result"}),
		gatherer: reg,
	}

	reg.MustRegister(m.requests, m.latency, m.cartMutations, m.cartConflicts, m.couponApplication, m.checkouts)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(route, method).Observe(float64(elapsed.Microseconds()) / 1000)
}

// CartMutation records the outcome ("ok" or an error code) of a cart operation.
func (m *Metrics) CartMutation(operation, outcome string) {
	if m == nil {
		return
	}
	m.cartMutations.WithLabelValues(operation, outcome).Inc()
}

// CartConflict records one version conflict.
func (m *Metrics) CartConflict() {
	if m == nil {
		return
	}
	m.cartConflicts.Inc()
}

// CouponApplied records a coupon application result ("ok" or an error code).
func (m *Metrics) CouponApplied(result string) {
	if m == nil {
		return
	}
	m.couponApplication.WithLabelValues(result).Inc()
}

// Checkout records a checkout result ("ok" or an error code).
func (m *Metrics) Checkout(result string) {
	if m == nil {
		return
	}
	m.checkouts.WithLabelValues(result).Inc()
}
