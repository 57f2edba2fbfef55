package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"video-analyzer/shared/ai"
	"video-analyzer/shared/config"
	"video-analyzer/shared/httpapi"
	"video-analyzer/shared/monitoring"
	"video-analyzer/shared/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create context that responds to signals
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	analyzer := ai.NewAnalyzer(cfg.AI.Model, cfg.APIKey(), ai.NewGeminiStreamer)
	monitor := monitoring.NewMonitor()

	var recorder httpapi.Recorder
	opts := httpapi.RouterOptions{
		Health:      monitoring.NewHealthHandler(monitor),
		MetricsPath: cfg.Metrics.Path,
	}
	if !cfg.Metrics.Disabled {
		metrics := monitoring.NewMetrics()
		recorder = metrics
		opts.Metrics = metrics
	}

	router := httpapi.NewRouter(httpapi.NewAnalyzeHandler(analyzer, recorder), opts)

	if cfg.Probe.Schedule != "" {
		prober := ai.NewProber(analyzer, cfg.Probe.VideoURL, cfg.Probe.Prompt)
		s := scheduler.New(cfg.Probe.Schedule, prober, monitor)
		go func() {
			if err := s.Start(ctx); err != nil && ctx.Err() == nil {
				log.Printf("Probe scheduler failed: %v", err)
			}
		}()
	}

	log.Printf("Using model %s", cfg.AI.Model)
	if err := httpapi.NewServer(cfg.Server, router).Run(ctx); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
