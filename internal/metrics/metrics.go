// Package metrics exposes Prometheus instrumentation for classifications
// and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/muliwe/go-triangle-classifier/internal/triangle"
)

// Metrics holds the collectors registered by New
type Metrics struct {
	gatherer prometheus.Gatherer

	// Classifications counts results per triangle type
	Classifications *prometheus.CounterVec

	// ClassifyDuration tracks time spent per classification, simulated latency included
	ClassifyDuration prometheus.Histogram

	// HTTPRequests counts API requests per route and status code
	HTTPRequests *prometheus.CounterVec
}

// New registers the collectors on reg. A nil reg gets a private registry
// holding Go and process collectors, so New may be called more than once.
// A non-gathering reg is served from the default gatherer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		r := prometheus.NewRegistry()
		r.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		reg = r
	}

	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	f := promauto.With(reg)
	m := &Metrics{
		gatherer: gatherer,
		Classifications: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "triangle_classifications_total",
				Help: "Total number of classifications by triangle type",
			},
			[]string{"type"},
		),
		ClassifyDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "triangle_classify_duration_seconds",
				Help:    "Classification latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "triangle_http_requests_total",
				Help: "Total number of HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),
	}

	// Pre-create a series per type so all four show up at zero
	for _, t := range triangle.Types() {
		m.Classifications.WithLabelValues(t.String())
	}

	return m
}

// ObserveClassification implements classifier.Recorder
func (m *Metrics) ObserveClassification(t triangle.Type, d time.Duration) {
	m.Classifications.WithLabelValues(t.String()).Inc()
	m.ClassifyDuration.Observe(d.Seconds())
}

// ObserveRequest counts one HTTP request
func (m *Metrics) ObserveRequest(route string, code int) {
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
