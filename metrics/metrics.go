package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests and multiple servers never collide
// on the default one.
type Metrics struct {
	Registry *prometheus.Registry

	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	pageLoadFailures *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogfront_upstream_requests_total",
			Help: "Requests sent to the blog API, by status code and method.",
		}, []string{"code", "method"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "blogfront_upstream_request_duration_seconds",
			Help:    "Latency of requests sent to the blog API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		pageLoadFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogfront_page_load_failures_total",
			Help: "Page loads that failed, by loader.",
		}, []string{"loader"}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.upstreamRequests,
		m.upstreamDuration,
		m.pageLoadFailures,
	)

	return m
}

// Transport instruments every request the API client sends.
func (m *Metrics) Transport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperCounter(m.upstreamRequests,
		promhttp.InstrumentRoundTripperDuration(m.upstreamDuration, next))
}

func (m *Metrics) LoadFailed(loader string) {
	m.pageLoadFailures.WithLabelValues(loader).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
