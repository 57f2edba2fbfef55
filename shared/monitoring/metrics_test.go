package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsObserveRequest(t *testing.T) {
	m := NewMetrics()

	m.ObserveRequest(OutcomeSuccess)
	m.ObserveRequest(OutcomeSuccess)
	m.ObserveRequest(OutcomeBadRequest)

	tests := []struct {
		outcome  string
		expected float64
	}{
		{OutcomeSuccess, 2},
		{OutcomeBadRequest, 1},
		{OutcomeUpstreamError, 0},
	}

	for _, tt := range tests {
		t.Run(tt.outcome, func(t *testing.T) {
			if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues(tt.outcome)); got != tt.expected {
				t.Errorf("requests_total{outcome=%s} = %v, want %v", tt.outcome, got, tt.expected)
			}
		})
	}
}

func TestMetricsObserveStream(t *testing.T) {
	m := NewMetrics()
	m.ObserveStream(3*time.Second, 12)

	if n := testutil.CollectAndCount(m.streamDuration); n != 1 {
		t.Errorf("stream_duration_seconds series = %d, want 1", n)
	}

	expected := `
# HELP video_analyzer_stream_chunks Chunks received per successful stream
# TYPE video_analyzer_stream_chunks histogram
video_analyzer_stream_chunks_bucket{le="1"} 0
video_analyzer_stream_chunks_bucket{le="2"} 0
video_analyzer_stream_chunks_bucket{le="4"} 0
video_analyzer_stream_chunks_bucket{le="8"} 0
video_analyzer_stream_chunks_bucket{le="16"} 1
video_analyzer_stream_chunks_bucket{le="32"} 1
video_analyzer_stream_chunks_bucket{le="64"} 1
video_analyzer_stream_chunks_bucket{le="128"} 1
video_analyzer_stream_chunks_bucket{le="256"} 1
video_analyzer_stream_chunks_bucket{le="512"} 1
video_analyzer_stream_chunks_bucket{le="+Inf"} 1
video_analyzer_stream_chunks_sum 12
video_analyzer_stream_chunks_count 1
`
	if err := testutil.CollectAndCompare(m.streamChunks, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected stream_chunks output: %v", err)
	}
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	m.ObserveRequest(OutcomeUpstreamError)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `video_analyzer_analyze_requests_total{outcome="upstream_error"} 1`) {
		t.Errorf("missing counter in output:\n%s", rec.Body.String())
	}
}

func TestMetricsRegistry(t *testing.T) {
	m := NewMetrics()
	m.ObserveRequest(OutcomeSuccess)
	m.ObserveRequest(OutcomeBadRequest)
	m.ObserveStream(time.Second, 3)

	tests := []struct {
		name     string
		expected int
	}{
		{"video_analyzer_analyze_requests_total", 2},
		{"video_analyzer_stream_duration_seconds", 1},
		{"video_analyzer_stream_chunks", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := testutil.GatherAndCount(m.Registry(), tt.name)
			if err != nil {
				t.Fatalf("GatherAndCount() error = %v", err)
			}
			if n != tt.expected {
				t.Errorf("%s series = %d, want %d", tt.name, n, tt.expected)
			}
		})
	}
}
