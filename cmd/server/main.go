package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/genehive/genehive-server/internal/api"
	"github.com/genehive/genehive-server/internal/catalog"
	"github.com/genehive/genehive-server/internal/config"
	"github.com/genehive/genehive-server/internal/domain"
	"github.com/genehive/genehive-server/internal/observability"
	"github.com/genehive/genehive-server/internal/service"
	"github.com/genehive/genehive-server/pkg/llm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment and defaults")
	}

	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := observability.NewLogger(cfg.Logging)

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.Init()
	}

	// Wire the risk and counseling services
	diseaseCatalog := catalog.NewCatalog(logger)
	riskEngine := service.NewRiskEngine(logger)
	simulator := service.NewSimulatorService(logger, riskEngine)

	generator, err := buildGenerator(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to build text generator")
	}
	counselor := service.NewCounselorService(logger, riskEngine, generator)

	handler := api.NewHandler(logger, diseaseCatalog, simulator, counselor, generator, metrics, cfg.CORS.AllowedOrigins)
	server := api.NewServer(configManager, logger, handler)

	logger.WithFields(logrus.Fields{
		"host":        cfg.Server.Host,
		"port":        cfg.Server.Port,
		"environment": cfg.Server.Environment,
		"provider":    generator.Name(),
	}).Info("Starting GENEHIVE API server")

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}

// buildGenerator assembles the provider-selected client wrapped with
// caching, rate limiting and a circuit breaker.
func buildGenerator(cfg *domain.Config, logger *logrus.Logger) (domain.TextGenerator, error) {
	client, err := llm.NewTextGenerator(cfg, logger)
	if err != nil {
		return nil, err
	}

	var cache *llm.ResponseCache
	if cfg.Cache.Enabled {
		cache = llm.NewResponseCache(cfg.Cache, logger)
	}

	// Cache keys carry the model actually serving completions.
	model := cfg.Ollama.Model
	if strings.ToLower(cfg.LLM.Provider) == "openai" && cfg.LLM.OpenAI.Model != "" {
		model = cfg.LLM.OpenAI.Model
	}

	return llm.NewResilientClient(client, cache, llm.ResilientConfig{
		Model:     model,
		RateLimit: cfg.Ollama.RateLimit,
		RateBurst: cfg.Ollama.RateBurst,
	}, logger), nil
}
