package llm

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/genehive/genehive-server/internal/domain"
)

// NewTextGenerator builds the configured backend client. The default
// provider is the native Ollama API; "openai" selects any
// OpenAI-compatible endpoint, with Ollama's /v1 mode filled in when no
// base URL is configured.
func NewTextGenerator(config *domain.Config, logger *logrus.Logger) (domain.TextGenerator, error) {
	provider := strings.ToLower(config.LLM.Provider)

	switch provider {
	case "", "ollama":
		return NewOllamaClient(config.Ollama, logger), nil

	case "openai":
		openAICfg := config.LLM.OpenAI
		if openAICfg.BaseURL == "" {
			// Point at the local Ollama server's OpenAI-compatible API.
			openAICfg.BaseURL = strings.TrimSuffix(config.Ollama.BaseURL, "/") + "/v1"
		}
		if openAICfg.APIKey == "" {
			// Ollama ignores the key but the client requires one.
			openAICfg.APIKey = "ollama"
		}
		if openAICfg.Model == "" {
			openAICfg.Model = config.Ollama.Model
		}
		return NewOpenAIClient(openAICfg, logger), nil

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", config.LLM.Provider)
	}
}
