// Package metrics exposes checkout counters and latencies to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PaymentMetrics counts checkout_prepare and checkout_perform outcomes per
// provider and observes how long perform takes.
type PaymentMetrics struct {
	registry       *prometheus.Registry
	prepareTotal   *prometheus.CounterVec
	performTotal   *prometheus.CounterVec
	performLatency *prometheus.HistogramVec
	httpRequests   *prometheus.CounterVec
}

func NewPaymentMetrics() *PaymentMetrics {
	m := &PaymentMetrics{
		registry: prometheus.NewRegistry(),
		prepareTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ticketry",
			Subsystem: "checkout",
			Name:      "prepare_total",
			Help:      "Payment step submissions by provider and outcome",
		}, []string{"provider", "outcome"}),
		performTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ticketry",
			Subsystem: "checkout",
			Name:      "perform_total",
			Help:      "Payment attempts by provider and result",
		}, []string{"provider", "status"}),
		performLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ticketry",
			Subsystem: "checkout",
			Name:      "perform_duration_seconds",
			Help:      "Time spent in checkout_perform",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ticketry",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"method", "route", "code"}),
	}

	m.registry.MustRegister(
		m.prepareTotal,
		m.performTotal,
		m.performLatency,
		m.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *PaymentMetrics) ObservePrepare(provider, outcome string) {
	m.prepareTotal.WithLabelValues(provider, outcome).Inc()
}

func (m *PaymentMetrics) ObservePerform(provider, status string, elapsed time.Duration) {
	m.performTotal.WithLabelValues(provider, status).Inc()
	m.performLatency.WithLabelValues(provider).Observe(elapsed.Seconds())
}

func (m *PaymentMetrics) ObserveRequest(method, route, code string) {
	m.httpRequests.WithLabelValues(method, route, code).Inc()
}

func (m *PaymentMetrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *PaymentMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
