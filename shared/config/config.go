package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultModel       = "gemini-2.5-flash"
	DefaultProbeURL    = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	DefaultProbePrompt = "What is this video about? Give me a very brief summary."

	defaultConfigFile = "config.yaml"
)

type Config struct {
	AI      AIConfig      `yaml:"ai"`
	Server  ServerConfig  `yaml:"server"`
	Probe   ProbeConfig   `yaml:"probe"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type AIConfig struct {
	GeminiAPIKey string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	Model        string `yaml:"model" env:"GEMINI_MODEL"`
}

type ServerConfig struct {
	Host         string        `yaml:"host" env:"SERVER_HOST"`
	Port         int           `yaml:"port" env:"PORT"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
}

// ProbeConfig controls the periodic provider check. An empty schedule disables it.
type ProbeConfig struct {
	Schedule string `yaml:"schedule" env:"PROBE_SCHEDULE"`
	VideoURL string `yaml:"video_url" env:"PROBE_VIDEO_URL"`
	Prompt   string `yaml:"prompt" env:"PROBE_PROMPT"`
}

type MetricsConfig struct {
	Disabled bool   `yaml:"disabled" env:"METRICS_DISABLED"`
	Path     string `yaml:"path" env:"METRICS_PATH"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	explicit := configFile != ""
	if !explicit {
		configFile = defaultConfigFile
	}

	var cfg Config
	data, err := os.ReadFile(configFile)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// No config file, environment only
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	// Environment overrides whatever the file set
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.AI.Model == "" {
		c.AI.Model = DefaultModel
	}
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		// Long videos can take minutes to stream back
		c.Server.WriteTimeout = 5 * time.Minute
	}
	if c.Probe.VideoURL == "" {
		c.Probe.VideoURL = DefaultProbeURL
	}
	if c.Probe.Prompt == "" {
		c.Probe.Prompt = DefaultProbePrompt
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// A missing API key is not an error here; it surfaces on the first request.
func (c *Config) validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return fmt.Errorf("server timeouts must not be negative")
	}
	return nil
}

// Addr is the listen address for the local server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// APIKey returns a key source bound to the loaded configuration.
func (c *Config) APIKey() func() string {
	key := c.AI.GeminiAPIKey
	return func() string { return key }
}

// APIKeyFromEnv reads GEMINI_API_KEY at call time.
func APIKeyFromEnv() string {
	return os.Getenv("GEMINI_API_KEY")
}

// ModelFromEnv returns GEMINI_MODEL or the default model.
func ModelFromEnv() string {
	if m := os.Getenv("GEMINI_MODEL"); m != "" {
		return m
	}
	return DefaultModel
}
