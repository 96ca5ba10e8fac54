package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/genehive/genehive-server/internal/catalog"
	"github.com/genehive/genehive-server/internal/config"
	"github.com/genehive/genehive-server/internal/domain"
	"github.com/genehive/genehive-server/internal/mcp"
	"github.com/genehive/genehive-server/internal/observability"
	"github.com/genehive/genehive-server/internal/service"
	"github.com/genehive/genehive-server/internal/setup"
	"github.com/genehive/genehive-server/pkg/llm"
)

func main() {
	// Handle setup subcommand before starting the server
	if len(os.Args) > 1 && os.Args[1] == "setup" {
		cli := setup.NewCLI()
		if err := cli.Run(os.Args[2:]); err != nil {
			log.Fatalf("Setup failed: %v", err)
		}
		return
	}

	// Environment-only configuration; an MCP host passes settings through
	// the process environment, never config files.
	cfg := config.LoadLiteConfig()

	// logrus writes to stderr, keeping stdout clean for the MCP protocol.
	logger := observability.NewLogger(domain.LoggingConfig{Level: cfg.LogLevel, Format: cfg.LogFormat})

	diseaseCatalog := catalog.NewCatalog(logger)
	riskEngine := service.NewRiskEngine(logger)
	simulator := service.NewSimulatorService(logger, riskEngine)

	ollama := llm.NewOllamaClient(cfg.OllamaConfig(), logger)
	cache := llm.NewResponseCache(domain.CacheConfig{Enabled: true}, logger)
	generator := llm.NewResilientClient(ollama, cache, llm.ResilientConfig{Model: cfg.OllamaModel}, logger)

	counselor := service.NewCounselorService(logger, riskEngine, generator)

	server := mcp.NewServer(logger, diseaseCatalog, riskEngine, simulator, counselor)

	log.Println("Starting GENEHIVE MCP server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Shutdown signal received, gracefully shutting down MCP server...")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		log.Fatalf("MCP server failed: %v", err)
	}

	log.Println("GENEHIVE MCP server stopped")
}
