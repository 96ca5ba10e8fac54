package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/genehive/genehive-server/internal/domain"
	"github.com/genehive/genehive-server/internal/observability"
	"github.com/genehive/genehive-server/pkg/llm"
)

// Version is reported by the root endpoint and stamped on exports.
const Version = "1.0.0"

const healthProbeTimeout = 5 * time.Second

// cacheStatsProvider is implemented by generators that expose response
// cache counters (the resilient client does).
type cacheStatsProvider interface {
	CacheStats() llm.CacheStats
}

// Handler bundles the services behind the REST and websocket endpoints.
type Handler struct {
	logger    *logrus.Logger
	catalog   domain.DiseaseCatalog
	simulator domain.Simulator
	counselor domain.Counselor
	generator domain.TextGenerator
	metrics   *observability.Metrics
	upgrader  websocket.Upgrader
}

// NewHandler creates the endpoint handler set. metrics may be nil when
// exposition is disabled.
func NewHandler(
	logger *logrus.Logger,
	catalog domain.DiseaseCatalog,
	simulator domain.Simulator,
	counselor domain.Counselor,
	generator domain.TextGenerator,
	metrics *observability.Metrics,
	allowedOrigins []string,
) *Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return &Handler{
		logger:    logger,
		catalog:   catalog,
		simulator: simulator,
		counselor: counselor,
		generator: generator,
		metrics:   metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					// Non-browser clients send no Origin header.
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// Root reports service identity. The frontend uses it as a reachability
// probe before enabling AI features.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "GENEHIVE API is running",
		"version": Version,
	})
}

// Health reports API liveness plus the LLM backend's reachability. The
// status stays healthy even when Ollama is down; only the services map
// records the outage.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthProbeTimeout)
	defer cancel()

	ollamaStatus := "connected"
	if err := h.generator.Health(ctx); err != nil {
		h.logger.WithError(err).Warn("LLM backend health probe failed")
		ollamaStatus = "disconnected"
	}

	h.refreshCacheGauges()

	c.JSON(http.StatusOK, domain.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Services: map[string]string{
			"api":    "running",
			"ollama": ollamaStatus,
		},
	})
}

// Simulate runs the risk engine over the submitted pedigree and returns
// one risk record per (member, disease) pair plus summary statistics.
func (h *Handler) Simulate(c *gin.Context) {
	var req domain.SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.abortWithError(c, http.StatusBadRequest, domain.ErrInvalidInput, "invalid simulation request", err.Error())
		return
	}
	if err := validateSimulationRequest(&req); err != nil {
		h.abortWithError(c, http.StatusBadRequest, domain.ErrValidation, "invalid simulation request", err.Error())
		return
	}

	start := time.Now()
	result := h.simulator.Simulate(&req)

	if h.metrics != nil {
		h.metrics.SimulationsTotal.Inc()
		h.metrics.SimulationDuration.Observe(time.Since(start).Seconds())
		for i := range result.Risks {
			h.metrics.RiskLevelsTotal.WithLabelValues(result.Risks[i].Level().String()).Inc()
		}
	}

	c.JSON(http.StatusOK, result)
}

// Diseases returns the built-in disease catalog.
func (h *Handler) Diseases(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"diseases": h.catalog.List()})
}

// Chat answers a counseling question grounded in the submitted pedigree.
// Generation failures degrade to fallback text upstream; an error here
// means a programming mistake or a cancelled request.
func (h *Handler) Chat(c *gin.Context) {
	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.abortWithError(c, http.StatusBadRequest, domain.ErrInvalidInput, "invalid chat request", err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		h.abortWithError(c, http.StatusBadRequest, domain.ErrValidation, "message is required", "")
		return
	}

	resp, err := h.counselor.Chat(c.Request.Context(), &req)
	if err != nil {
		h.logger.WithError(err).Error("Chat generation failed")
		h.abortWithError(c, http.StatusInternalServerError, domain.ErrChat, "failed to generate response", "")
		return
	}

	h.recordLLMOutcome(resp.Response)
	c.JSON(http.StatusOK, resp)
}

// Explain computes one member's risk for one disease and asks the
// counselor for a personalized explanation of it.
func (h *Handler) Explain(c *gin.Context) {
	var req domain.ExplanationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.abortWithError(c, http.StatusBadRequest, domain.ErrInvalidInput, "invalid explanation request", err.Error())
		return
	}
	if err := req.Member.Validate(); err != nil {
		h.abortWithError(c, http.StatusBadRequest, domain.ErrValidation, "invalid explanation request", err.Error())
		return
	}
	if err := req.Disease.Validate(); err != nil {
		h.abortWithError(c, http.StatusBadRequest, domain.ErrValidation, "invalid explanation request", err.Error())
		return
	}

	resp, err := h.counselor.Explain(c.Request.Context(), &req)
	if err != nil {
		h.logger.WithError(err).Error("Explanation generation failed")
		h.abortWithError(c, http.StatusInternalServerError, domain.ErrExplanation, "failed to generate explanation", "")
		return
	}

	h.recordLLMOutcome(resp.Explanation)
	c.JSON(http.StatusOK, resp)
}

// Export echoes the submitted family data stamped with an export date
// and the API version, for client-side download.
func (h *Handler) Export(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.abortWithError(c, http.StatusBadRequest, domain.ErrInvalidInput, "invalid export payload", err.Error())
		return
	}
	if payload == nil {
		payload = map[string]any{}
	}

	payload["exportDate"] = time.Now().UTC().Format(time.RFC3339)
	payload["version"] = Version

	c.JSON(http.StatusOK, payload)
}

func (h *Handler) abortWithError(c *gin.Context, status int, code, message, details string) {
	c.AbortWithStatusJSON(status, domain.NewAPIError(code, message, details, c.GetString("correlation_id")))
}

// recordLLMOutcome counts a completion as ok or fallback.
func (h *Handler) recordLLMOutcome(response string) {
	if h.metrics == nil {
		return
	}
	outcome := "ok"
	if llm.IsFallback(response) {
		outcome = "fallback"
	}
	h.metrics.LLMRequestsTotal.WithLabelValues(h.generator.Name(), outcome).Inc()
}

// refreshCacheGauges mirrors the response cache counters into Prometheus
// on each health probe.
func (h *Handler) refreshCacheGauges() {
	if h.metrics == nil {
		return
	}
	provider, ok := h.generator.(cacheStatsProvider)
	if !ok {
		return
	}

	stats := provider.CacheStats()
	h.metrics.CacheHits.WithLabelValues("memory").Set(float64(stats.MemoryHits))
	h.metrics.CacheMisses.WithLabelValues("memory").Set(float64(stats.MemoryMisses))
	h.metrics.CacheHits.WithLabelValues("redis").Set(float64(stats.RedisHits))
	h.metrics.CacheMisses.WithLabelValues("redis").Set(float64(stats.RedisMisses))
}

func validateSimulationRequest(req *domain.SimulationRequest) error {
	for i := range req.FamilyMembers {
		if err := req.FamilyMembers[i].Validate(); err != nil {
			return domain.NewValidationError(fmt.Sprintf("familyMembers[%d]", i), err.Error(), req.FamilyMembers[i].ID)
		}
	}
	for i := range req.Diseases {
		if err := req.Diseases[i].Validate(); err != nil {
			return domain.NewValidationError(fmt.Sprintf("diseases[%d]", i), err.Error(), req.Diseases[i].ID)
		}
	}
	return nil
}
