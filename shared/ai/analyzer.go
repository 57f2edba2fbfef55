package ai

import (
	"context"
	"fmt"
	"iter"
	"log"
	"strings"
	"unicode/utf8"

	"google.golang.org/genai"
)

const (
	// DefaultPrompt is used when the caller sends no prompt.
	DefaultPrompt = "Tell me what they said in this video. Provide a detailed summary."

	// VideoMIMEType lets Gemini pick the concrete format of the referenced video.
	VideoMIMEType = "video/*"

	// unboundedThinking tells Gemini to choose its own thinking budget.
	unboundedThinking int32 = -1
)

// ContentStreamer is the part of genai.Models the analyzer needs.
type ContentStreamer interface {
	GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
}

// StreamerFactory builds a streamer for a single request.
type StreamerFactory func(ctx context.Context, apiKey string) (ContentStreamer, error)

// KeySource returns the Gemini API key at call time.
type KeySource func() string

// NewGeminiStreamer creates a fresh Gemini client. Errors are returned as-is so
// the caller sees the SDK's own message.
func NewGeminiStreamer(ctx context.Context, apiKey string) (ContentStreamer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return client.Models, nil
}

// StreamStats describes one drained stream.
type StreamStats struct {
	Chunks int
	Bytes  int
}

type Analyzer struct {
	newStreamer StreamerFactory
	apiKey      KeySource
	model       string
}

func NewAnalyzer(model string, apiKey KeySource, factory StreamerFactory) *Analyzer {
	if factory == nil {
		factory = NewGeminiStreamer
	}
	return &Analyzer{
		newStreamer: factory,
		apiKey:      apiKey,
		model:       model,
	}
}

func (a *Analyzer) Model() string {
	return a.model
}

// AnalyzeVideo sends the video URL and prompt to Gemini and returns the whole
// streamed answer. Output is all-or-nothing: on any error the partial text is
// discarded.
func (a *Analyzer) AnalyzeVideo(ctx context.Context, videoURL, prompt string) (string, StreamStats, error) {
	var stats StreamStats

	key := ""
	if a.apiKey != nil {
		key = a.apiKey()
	}

	streamer, err := a.newStreamer(ctx, key)
	if err != nil {
		return "", stats, err
	}
	if streamer == nil {
		return "", stats, fmt.Errorf("no content streamer available")
	}

	contents := BuildContents(videoURL, prompt)
	stream := streamer.GenerateContentStream(ctx, a.model, contents, BuildGenerateConfig())
	if stream == nil {
		return "", stats, fmt.Errorf("model %s returned no stream", a.model)
	}

	var sb strings.Builder
	for chunk, err := range stream {
		if err != nil {
			return "", stats, err
		}
		stats.Chunks++
		text := chunkText(chunk)
		stats.Bytes += len(text)
		sb.WriteString(text)
	}

	return sb.String(), stats, nil
}

// BuildContents returns the single user message: the video reference first,
// then the prompt.
func BuildContents(videoURL, prompt string) []*genai.Content {
	parts := []*genai.Part{
		genai.NewPartFromURI(videoURL, VideoMIMEType),
		genai.NewPartFromText(EffectivePrompt(prompt)),
	}

	return []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}
}

// BuildGenerateConfig enables unbounded thinking and the URL context tool.
func BuildGenerateConfig() *genai.GenerateContentConfig {
	budget := unboundedThinking
	return &genai.GenerateContentConfig{
		ThinkingConfig: &genai.ThinkingConfig{
			ThinkingBudget: &budget,
		},
		Tools: []*genai.Tool{
			{URLContext: &genai.URLContext{}},
		},
	}
}

func EffectivePrompt(prompt string) string {
	if prompt == "" {
		return DefaultPrompt
	}
	return prompt
}

// chunkText concatenates the text parts of the first candidate. Chunks that
// carry only metadata (usage, URL context results) contribute nothing.
func chunkText(chunk *genai.GenerateContentResponse) string {
	if chunk == nil || len(chunk.Candidates) == 0 {
		return ""
	}
	content := chunk.Candidates[0].Content
	if content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}

// truncateString keeps the first maxLength runes of s.
func truncateString(s string, maxLength int) string {
	if utf8.RuneCountInString(s) <= maxLength {
		return s
	}
	return string([]rune(s)[:maxLength]) + "..."
}

func logPreview(label, text string) {
	log.Printf("%s: %s", label, truncateString(text, 200))
}
