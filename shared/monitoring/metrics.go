package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "video_analyzer"

	OutcomeSuccess       = "success"
	OutcomeBadRequest    = "bad_request"
	OutcomeUpstreamError = "upstream_error"
)

// Metrics holds the Prometheus collectors for the analyze endpoint. It uses
// its own registry so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal  *prometheus.CounterVec
	streamDuration prometheus.Histogram
	streamChunks   prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analyze_requests_total",
				Help:      "Analyze requests by outcome",
			},
			[]string{"outcome"},
		),
		streamDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stream_duration_seconds",
				Help:      "Time spent opening and draining the Gemini stream",
				// Video analysis runs from seconds to several minutes
				Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 120, 300},
			},
		),
		streamChunks: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stream_chunks",
				Help:      "Chunks received per successful stream",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
	}

	m.registry.MustRegister(
		m.requestsTotal,
		m.streamDuration,
		m.streamChunks,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) ObserveRequest(outcome string) {
	m.requestsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveStream(duration time.Duration, chunks int) {
	m.streamDuration.Observe(duration.Seconds())
	m.streamChunks.Observe(float64(chunks))
}

// Handler exposes the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

// Registry is the gatherer behind Handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
