package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"video-analyzer/shared/ai"
	"video-analyzer/shared/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fmt.Println("Testing Gemini API...")
	fmt.Println("API Key exists:", cfg.AI.GeminiAPIKey != "")

	analyzer := ai.NewAnalyzer(cfg.AI.Model, cfg.APIKey(), ai.NewGeminiStreamer)
	prober := ai.NewProber(analyzer, cfg.Probe.VideoURL, cfg.Probe.Prompt)

	if err := prober.RunOnce(ctx); err != nil {
		log.Fatalf("ERROR: %v", err)
	}
	fmt.Println("SUCCESS")
}
