// Package api exposes the risk engine and AI counselor over REST and
// websocket endpoints for the pedigree frontend.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/genehive/genehive-server/internal/domain"
	"github.com/genehive/genehive-server/internal/middleware"
)

// Server represents the HTTP server
type Server struct {
	configManager domain.ConfigManager
	logger        *logrus.Logger
	handler       *Handler
	router        *gin.Engine
	server        *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(configManager domain.ConfigManager, logger *logrus.Logger, handler *Handler) *Server {
	cfg := configManager.GetConfig()

	// Set Gin mode based on environment
	if configManager.IsDevelopment() && cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	router.Use(middleware.RequestLogger(logger))
	if cfg.Metrics.Enabled && handler.metrics != nil {
		router.Use(middleware.Metrics(handler.metrics))
	}

	server := &Server{
		configManager: configManager,
		logger:        logger,
		handler:       handler,
		router:        router,
	}

	server.setupRoutes()

	return server
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.configManager.GetServerConfig()
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		s.logger.WithField("addr", addr).Info("GENEHIVE API server listening")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Fatal("HTTP server failed")
		}
	}()

	<-ctx.Done()

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	cfg := s.configManager.GetConfig()
	h := s.handler

	s.router.GET("/", h.Root)
	s.router.GET("/health", h.Health)
	if cfg.Metrics.Enabled {
		s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// Long-lived chat sessions need an uncancelled request context, which
	// keeps the websocket route outside the timeout group.
	s.router.GET("/api/chat/ws", h.ChatWebSocket)

	api := s.router.Group("/api", middleware.RequestTimeout(cfg.Server.WriteTimeout))
	{
		api.POST("/simulate", h.Simulate)
		api.GET("/diseases", h.Diseases)
		api.POST("/chat", h.Chat)
		api.POST("/explain", h.Explain)
		api.POST("/export", h.Export)
	}
}
