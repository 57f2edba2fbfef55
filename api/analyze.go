// Package handler is the serverless entry point for /api/analyze.
package handler

import (
	"net/http"

	"video-analyzer/shared/ai"
	"video-analyzer/shared/config"
	"video-analyzer/shared/httpapi"
)

// Handler is invoked by the platform once per request. The analyzer is built
// fresh each time and reads GEMINI_API_KEY when the stream is opened.
func Handler(w http.ResponseWriter, r *http.Request) {
	New(ai.NewGeminiStreamer).ServeHTTP(w, r)
}

// New wires the analyze handler against the given streamer factory.
func New(factory ai.StreamerFactory) http.Handler {
	analyzer := ai.NewAnalyzer(config.ModelFromEnv(), config.APIKeyFromEnv, factory)
	return httpapi.NewAnalyzeHandler(analyzer, nil)
}
