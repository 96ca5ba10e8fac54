// Package config provides configuration management for the GENEHIVE
// servers. This file contains the lightweight configuration for the
// standalone MCP binary, which must start without a config file.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/genehive/genehive-server/internal/domain"
)

// LiteConfig is a simplified configuration for standalone MCP operation.
// Only the Ollama endpoint and logging are tunable; everything else uses
// the server defaults.
type LiteConfig struct {
	// Ollama endpoint
	OllamaBaseURL string
	OllamaModel   string
	OllamaTimeout time.Duration

	// Generation defaults
	Temperature float64
	TopP        float64
	MaxTokens   int

	// Logging
	LogLevel  string // Log level: debug, info, warn, error
	LogFormat string // Log format: json, text
}

// DefaultLiteConfig returns a configuration with sensible defaults.
func DefaultLiteConfig() *LiteConfig {
	return &LiteConfig{
		OllamaBaseURL: "http://localhost:11434",
		OllamaModel:   "llama3.2",
		OllamaTimeout: 30 * time.Second,
		Temperature:   0.7,
		TopP:          0.9,
		MaxTokens:     500,
		LogLevel:      "info",
		LogFormat:     "json",
	}
}

// LoadLiteConfig loads configuration from environment variables.
// Falls back to defaults if not set.
func LoadLiteConfig() *LiteConfig {
	cfg := DefaultLiteConfig()

	// Ollama endpoint; the unprefixed names match the REST server.
	if v := firstEnv("GENEHIVE_OLLAMA_BASE_URL", "OLLAMA_BASE_URL"); v != "" {
		cfg.OllamaBaseURL = v
	}
	if v := firstEnv("GENEHIVE_OLLAMA_MODEL", "OLLAMA_MODEL"); v != "" {
		cfg.OllamaModel = v
	}
	if v := os.Getenv("GENEHIVE_OLLAMA_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.OllamaTimeout = d
		}
	}

	// Generation defaults
	if v := os.Getenv("GENEHIVE_OLLAMA_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Temperature = f
		}
	}
	if v := os.Getenv("GENEHIVE_OLLAMA_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxTokens = n
		}
	}

	// Logging
	if v := os.Getenv("GENEHIVE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("GENEHIVE_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}

	return cfg
}

// OllamaConfig converts the lite configuration into the client settings
// used by the generation backends.
func (c *LiteConfig) OllamaConfig() domain.OllamaConfig {
	return domain.OllamaConfig{
		BaseURL:       c.OllamaBaseURL,
		Model:         c.OllamaModel,
		Timeout:       c.OllamaTimeout,
		HealthTimeout: 5 * time.Second,
		Temperature:   c.Temperature,
		TopP:          c.TopP,
		MaxTokens:     c.MaxTokens,
	}
}

// firstEnv returns the first non-empty value among the named variables.
func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
