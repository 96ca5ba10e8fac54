package llm

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/genehive/genehive-server/internal/domain"
)

// OpenAIClient talks to any OpenAI-compatible chat-completion endpoint,
// including an Ollama server running in OpenAI mode.
type OpenAIClient struct {
	client *openai.Client
	model  string
	logger *logrus.Logger
}

// NewOpenAIClient creates a new OpenAI-compatible chat client
func NewOpenAIClient(config domain.OpenAIConfig, logger *logrus.Logger) *OpenAIClient {
	cfg := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		cfg.BaseURL = config.BaseURL
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  config.Model,
		logger: logger,
	}
}

// Generate produces a completion with the family context as the system
// message and the question as the user message.
func (c *OpenAIClient) Generate(ctx context.Context, prompt, contextText string) (string, error) {
	c.logger.WithField("model", c.model).Debug("Generating text via OpenAI-compatible API")

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: contextText,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		c.logger.Warn("OpenAI-compatible API returned an empty completion")
		return FallbackEmptyResponse, nil
	}

	return resp.Choices[0].Message.Content, nil
}

// Health checks whether the endpoint is reachable by listing its models.
func (c *OpenAIClient) Health(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("OpenAI health check failed: %w", err)
	}
	return nil
}

// Name identifies the backend in logs and cache keys.
func (c *OpenAIClient) Name() string {
	return "openai"
}
