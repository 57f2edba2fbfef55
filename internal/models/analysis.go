package models

// AnalysisRequest is the POST body accepted by /api/analyze
type AnalysisRequest struct {
	YouTubeURL string `json:"youtubeUrl"`
	Prompt     string `json:"prompt,omitempty"`
}

// AnalysisResult is returned when the whole stream was drained successfully
type AnalysisResult struct {
	Success  bool   `json:"success"`
	Analysis string `json:"analysis"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// InfoResponse answers GET requests so the endpoint can be checked from a browser
type InfoResponse struct {
	Message   string            `json:"message"`
	Timestamp string            `json:"timestamp"`
	Endpoints map[string]string `json:"endpoints"`
}
