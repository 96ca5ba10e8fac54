package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/genehive/genehive-server/internal/domain"
)

// OllamaClient talks to a local Ollama server over its native generate
// API. Requests are non-streaming; the full completion comes back in one
// response body.
type OllamaClient struct {
	baseURL      string
	model        string
	temperature  float64
	topP         float64
	maxTokens    int
	httpClient   *http.Client
	healthClient *http.Client
	logger       *logrus.Logger
}

// NewOllamaClient creates a new Ollama API client
func NewOllamaClient(config domain.OllamaConfig, logger *logrus.Logger) *OllamaClient {
	return &OllamaClient{
		baseURL:     strings.TrimSuffix(config.BaseURL, "/"),
		model:       config.Model,
		temperature: config.Temperature,
		topP:        config.TopP,
		maxTokens:   config.MaxTokens,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		healthClient: &http.Client{
			Timeout: config.HealthTimeout,
		},
		logger: logger,
	}
}

// ollamaGenerateRequest is the Ollama /api/generate request body.
type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

// ollamaGenerateResponse is the non-streaming /api/generate response body.
type ollamaGenerateResponse struct {
	Model     string `json:"model"`
	CreatedAt string `json:"created_at"`
	Response  string `json:"response"`
	Done      bool   `json:"done"`
}

// Generate produces a completion for the prompt with the family context
// prepended. An empty completion is replaced by a canned apology; a nil
// error always comes with displayable text.
func (c *OllamaClient) Generate(ctx context.Context, prompt, contextText string) (string, error) {
	c.logger.WithField("model", c.model).Debug("Generating text via Ollama")

	payload := ollamaGenerateRequest{
		Model:  c.model,
		Prompt: fmt.Sprintf("%s\n\nUser: %s\n\nAssistant:", contextText, prompt),
		Stream: false,
		Options: map[string]any{
			"temperature": c.temperature,
			"top_p":       c.topP,
			"num_predict": c.maxTokens,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal Ollama request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create Ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("Ollama API call failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read Ollama response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"response":    string(respBody),
		}).Error("Ollama returned an error")
		return "", &StatusError{Provider: c.Name(), Code: resp.StatusCode}
	}

	var generated ollamaGenerateResponse
	if err := json.Unmarshal(respBody, &generated); err != nil {
		return "", fmt.Errorf("failed to parse Ollama response: %w", err)
	}

	if generated.Response == "" {
		c.logger.Warn("Ollama returned an empty completion")
		return FallbackEmptyResponse, nil
	}

	return generated.Response, nil
}

// Health checks whether the Ollama server is reachable by listing its
// installed models.
func (c *OllamaClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("failed to create Ollama health request: %w", err)
	}

	resp, err := c.healthClient.Do(req)
	if err != nil {
		return fmt.Errorf("Ollama health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Provider: c.Name(), Code: resp.StatusCode}
	}

	return nil
}

// Name identifies the backend in logs and cache keys.
func (c *OllamaClient) Name() string {
	return "ollama"
}
