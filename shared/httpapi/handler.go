package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"video-analyzer/internal/models"
	"video-analyzer/shared/ai"
	"video-analyzer/shared/monitoring"
)

const (
	infoMessage       = "YouTube Analyzer API is working"
	analyzeEndpoint   = "POST /api/analyze"
	analyzeEndpointDo = "Analyze YouTube video content"

	errMethodNotAllowed = "Method not allowed"
	errURLRequired      = "YouTube URL is required"
	errURLInvalid       = "Please provide a valid YouTube URL"
	errAnalyzePrefix    = "Failed to analyze video: "

	// JavaScript's Date.toISOString layout
	isoTimestamp = "2006-01-02T15:04:05.000Z"
)

// VideoAnalyzer produces the full analysis text for a video.
type VideoAnalyzer interface {
	AnalyzeVideo(ctx context.Context, videoURL, prompt string) (string, ai.StreamStats, error)
}

// Recorder receives per-request metrics. *monitoring.Metrics implements it.
type Recorder interface {
	ObserveRequest(outcome string)
	ObserveStream(duration time.Duration, chunks int)
}

// AnalyzeHandler serves /api/analyze. It keeps no state between requests.
type AnalyzeHandler struct {
	analyzer VideoAnalyzer
	metrics  Recorder
	now      func() time.Time
}

func NewAnalyzeHandler(analyzer VideoAnalyzer, metrics Recorder) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer: analyzer,
		metrics:  metrics,
		now:      time.Now,
	}
}

func (h *AnalyzeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w.Header())

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		writeJSON(w, http.StatusOK, models.InfoResponse{
			Message:   infoMessage,
			Timestamp: h.now().UTC().Format(isoTimestamp),
			Endpoints: map[string]string{
				analyzeEndpoint: analyzeEndpointDo,
			},
		})
	case http.MethodPost:
		h.analyze(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
	}
}

func (h *AnalyzeHandler) analyze(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r.Body)
	if err != nil {
		h.fail(w, err)
		return
	}

	if req.YouTubeURL == "" {
		h.observeRequest(monitoring.OutcomeBadRequest)
		writeError(w, http.StatusBadRequest, errURLRequired)
		return
	}
	if !IsYouTubeURL(req.YouTubeURL) {
		h.observeRequest(monitoring.OutcomeBadRequest)
		writeError(w, http.StatusBadRequest, errURLInvalid)
		return
	}

	start := time.Now()
	analysis, stats, err := h.analyzer.AnalyzeVideo(r.Context(), req.YouTubeURL, ai.EffectivePrompt(req.Prompt))
	if err != nil {
		h.fail(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ObserveStream(time.Since(start), stats.Chunks)
	}
	h.observeRequest(monitoring.OutcomeSuccess)
	writeJSON(w, http.StatusOK, models.AnalysisResult{Success: true, Analysis: analysis})
}

func (h *AnalyzeHandler) fail(w http.ResponseWriter, err error) {
	log.Printf("Error analyzing video: %v", err)
	h.observeRequest(monitoring.OutcomeUpstreamError)
	writeError(w, http.StatusInternalServerError, errAnalyzePrefix+err.Error())
}

func (h *AnalyzeHandler) observeRequest(outcome string) {
	if h.metrics != nil {
		h.metrics.ObserveRequest(outcome)
	}
}

// IsYouTubeURL is a plain substring check; anything containing a watch or
// short-link marker passes.
func IsYouTubeURL(s string) bool {
	return strings.Contains(s, "youtube.com/watch") || strings.Contains(s, "youtu.be/")
}

var errNullBody = errors.New("request body is null")

// decodeRequest treats an empty body, a JSON array or a scalar as a request
// with no fields. A null body is an error, as are wrongly typed fields inside
// an object.
func decodeRequest(body io.Reader) (models.AnalysisRequest, error) {
	var req models.AnalysisRequest
	if body == nil {
		return req, nil
	}

	var raw json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return req, nil
		}
		return req, err
	}

	raw = bytes.TrimSpace(raw)
	switch {
	case bytes.Equal(raw, []byte("null")):
		return req, errNullBody
	case len(raw) == 0 || raw[0] != '{':
		return req, nil
	}

	if err := json.Unmarshal(raw, &req); err != nil {
		return models.AnalysisRequest{}, err
	}
	return req, nil
}

func setCORSHeaders(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}
