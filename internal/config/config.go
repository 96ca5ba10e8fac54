package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/genehive/genehive-server/internal/domain"
)

// Manager implements the ConfigManager interface using Viper
type Manager struct {
	config *domain.Config
}

// NewManager creates a new configuration manager
func NewManager() (*Manager, error) {
	m := &Manager{}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from various sources
func (m *Manager) loadConfig() error {
	// Set configuration file name and paths
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/genehive/")

	// Set environment variable prefix and enable automatic env binding
	viper.SetEnvPrefix("GENEHIVE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Unprefixed aliases kept for frontend and container compatibility.
	viper.BindEnv("server.port", "GENEHIVE_SERVER_PORT", "PORT")
	viper.BindEnv("ollama.base_url", "GENEHIVE_OLLAMA_BASE_URL", "OLLAMA_BASE_URL")
	viper.BindEnv("ollama.model", "GENEHIVE_OLLAMA_MODEL", "OLLAMA_MODEL")

	// Set default values
	m.setDefaults()

	// Read configuration file (optional - will use defaults and env vars if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using defaults and environment variables
	}

	// Unmarshal configuration into struct
	config := &domain.Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

// setDefaults sets default configuration values
func (m *Manager) setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")
	viper.SetDefault("server.shutdown_timeout", "30s")
	viper.SetDefault("server.environment", "development")

	// Ollama defaults
	viper.SetDefault("ollama.base_url", "http://localhost:11434")
	viper.SetDefault("ollama.model", "llama3.2")
	viper.SetDefault("ollama.timeout", "30s")
	viper.SetDefault("ollama.health_timeout", "5s")
	viper.SetDefault("ollama.temperature", 0.7)
	viper.SetDefault("ollama.top_p", 0.9)
	viper.SetDefault("ollama.max_tokens", 500)
	viper.SetDefault("ollama.rate_limit", 5)
	viper.SetDefault("ollama.rate_burst", 10)

	// LLM provider defaults
	viper.SetDefault("llm.provider", "ollama")

	// Cache defaults; no Redis URL means the memory tier only
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.redis_url", "")
	viper.SetDefault("cache.ttl", "15m")
	viper.SetDefault("cache.memory_size", 1000)

	// CORS defaults for the local frontend
	viper.SetDefault("cors.allowed_origins", []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	})

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")

	// Metrics defaults
	viper.SetDefault("metrics.enabled", true)
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetServerConfig returns server configuration
func (m *Manager) GetServerConfig() *domain.ServerConfig {
	return &m.config.Server
}

// GetOllamaConfig returns Ollama endpoint configuration
func (m *Manager) GetOllamaConfig() *domain.OllamaConfig {
	return &m.config.Ollama
}

// GetCacheConfig returns response cache configuration
func (m *Manager) GetCacheConfig() *domain.CacheConfig {
	return &m.config.Cache
}

// Reload reloads the configuration
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	// Validate server configuration
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	// Validate Ollama configuration
	if config.Ollama.BaseURL == "" {
		return fmt.Errorf("ollama base URL is required")
	}
	if config.Ollama.Model == "" {
		return fmt.Errorf("ollama model is required")
	}
	if config.Ollama.Timeout <= 0 {
		return fmt.Errorf("ollama timeout must be positive")
	}
	if config.Ollama.MaxTokens <= 0 {
		return fmt.Errorf("ollama max_tokens must be positive")
	}

	// Validate provider selection
	switch strings.ToLower(config.LLM.Provider) {
	case "", "ollama", "openai":
	default:
		return fmt.Errorf("unsupported llm provider: %s", config.LLM.Provider)
	}

	// Validate CORS configuration
	if len(config.CORS.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one CORS origin is required")
	}

	// Validate logging configuration
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

// IsProduction returns true if running in production mode
func (m *Manager) IsProduction() bool {
	return strings.ToLower(m.config.Server.Environment) == "production"
}

// IsDevelopment returns true if running in development mode
func (m *Manager) IsDevelopment() bool {
	env := strings.ToLower(m.config.Server.Environment)
	return env == "development" || env == "dev" || env == ""
}
