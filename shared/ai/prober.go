package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// ErrEmptyAnalysis means the provider answered but produced no text.
var ErrEmptyAnalysis = errors.New("empty analysis from provider")

// Prober checks that the provider can analyze a known video end to end.
type Prober struct {
	analyzer *Analyzer
	videoURL string
	prompt   string
}

func NewProber(analyzer *Analyzer, videoURL, prompt string) *Prober {
	return &Prober{
		analyzer: analyzer,
		videoURL: videoURL,
		prompt:   prompt,
	}
}

func (p *Prober) Name() string {
	return "Gemini Probe"
}

func (p *Prober) RunOnce(ctx context.Context) error {
	start := time.Now()
	log.Printf("Probing %s with %s", p.analyzer.Model(), p.videoURL)

	result, stats, err := p.analyzer.AnalyzeVideo(ctx, p.videoURL, p.prompt)
	if err != nil {
		return fmt.Errorf("probe request failed: %w", err)
	}
	if result == "" {
		return ErrEmptyAnalysis
	}

	logPreview("Probe response", result)
	log.Printf("Probe succeeded: %d chunks, %d bytes in %v", stats.Chunks, stats.Bytes, time.Since(start).Round(time.Millisecond))
	return nil
}
