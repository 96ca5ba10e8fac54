package api

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/genehive/genehive-server/internal/domain"
)

// wsResponse mirrors the POST /api/chat response shape, with an error
// field for per-message failures that should not end the session.
type wsResponse struct {
	Response  string    `json:"response,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatWebSocket upgrades the connection and serves an interactive
// counseling session. Each inbound frame carries a full chat request
// (message, pedigree, history); the session itself holds no state.
func (h *Handler) ChatWebSocket(c *gin.Context) {
	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Error("Failed to upgrade websocket")
		return
	}
	defer ws.Close()

	sessionID := uuid.New().String()
	sessionLogger := h.logger.WithField("session_id", sessionID)
	sessionLogger.Info("Websocket chat session started")

	if h.metrics != nil {
		h.metrics.ActiveWebsockets.Inc()
		defer h.metrics.ActiveWebsockets.Dec()
	}

	if err := h.sendJSON(ws, gin.H{"action": "session_created", "sessionId": sessionID}); err != nil {
		return
	}

	for {
		var req domain.ChatRequest
		if err := ws.ReadJSON(&req); err != nil {
			sessionLogger.WithError(err).Info("Websocket chat session closed")
			return
		}

		if strings.TrimSpace(req.Message) == "" {
			if err := h.sendJSON(ws, wsResponse{Error: "message is required", Timestamp: time.Now().UTC()}); err != nil {
				return
			}
			continue
		}

		resp, err := h.counselor.Chat(c.Request.Context(), &req)
		if err != nil {
			sessionLogger.WithError(err).Error("Chat generation failed")
			if err := h.sendJSON(ws, wsResponse{Error: "failed to generate response", Timestamp: time.Now().UTC()}); err != nil {
				return
			}
			continue
		}

		h.recordLLMOutcome(resp.Response)
		if err := h.sendJSON(ws, wsResponse{Response: resp.Response, Timestamp: resp.Timestamp}); err != nil {
			return
		}
	}
}

func (h *Handler) sendJSON(ws *websocket.Conn, v any) error {
	if err := ws.WriteJSON(v); err != nil {
		h.logger.WithError(err).Warn("Failed to write websocket message")
		return err
	}
	return nil
}
