// Package metrics exposes Prometheus collectors for the storefront.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"smartmedishop-storefront/internal/checkout"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a registry and the storefront collectors.
type Metrics struct {
	registry *prometheus.Registry

	requests         *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	statusCategories *prometheus.CounterVec
	checkouts        *prometheus.CounterVec
	checkoutDuration prometheus.Histogram
	transitions      *prometheus.CounterVec
	activeShoppers   prometheus.Gauge
}

// New creates and registers the collectors under the given service label.
func New(service string) *Metrics {
	constLabels := prometheus.Labels{"service": service}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "Duration of HTTP requests in seconds",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "path"}),
		statusCategories: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_status_category_total",
			Help:        "Total number of responses by status category (2xx, 4xx, 5xx)",
			ConstLabels: constLabels,
		}, []string{"category"}),
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "storefront_checkouts_total",
			Help:        "Checkout attempts by result",
			ConstLabels: constLabels,
		}, []string{"result"}),
		checkoutDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "storefront_checkout_duration_seconds",
			Help:        "Duration of checkout attempts in seconds",
			Buckets:     []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 15, 30},
			ConstLabels: constLabels,
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "storefront_checkout_transitions_total",
			Help:        "Checkout state transitions by target state",
			ConstLabels: constLabels,
		}, []string{"state"}),
		activeShoppers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "storefront_active_shoppers",
			Help:        "Browser sessions currently held in memory",
			ConstLabels: constLabels,
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.requestDuration,
		m.statusCategories,
		m.checkouts,
		m.checkoutDuration,
		m.transitions,
		m.activeShoppers,
	)
	return m
}

// ObserveRequest records one served HTTP request. path should be the route
// pattern, not the raw URL.
func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())

	switch {
	case status >= 200 && status < 300:
		m.statusCategories.WithLabelValues("2xx").Inc()
	case status >= 400 && status < 500:
		m.statusCategories.WithLabelValues("4xx").Inc()
	case status >= 500:
		m.statusCategories.WithLabelValues("5xx").Inc()
	}
}

// CheckoutFinished records the result of one checkout attempt.
func (m *Metrics) CheckoutFinished(result string, elapsed time.Duration) {
	m.checkouts.WithLabelValues(result).Inc()
	m.checkoutDuration.Observe(elapsed.Seconds())
}

// TransitionHook counts checkout state changes.
func (m *Metrics) TransitionHook() checkout.TransitionFunc {
	return func(_, to checkout.State) {
		m.transitions.WithLabelValues(string(to)).Inc()
	}
}

// SetActiveShoppers reports the number of in-memory sessions.
func (m *Metrics) SetActiveShoppers(n int) {
	m.activeShoppers.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
