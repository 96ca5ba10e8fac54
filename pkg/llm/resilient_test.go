package llm

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genehive/genehive-server/internal/domain"
)

func newQuietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

// fakeBackend is a scriptable TextGenerator for wrapper tests.
type fakeBackend struct {
	mu       sync.Mutex
	calls    int
	response string
	err      error
}

func (f *fakeBackend) Generate(ctx context.Context, prompt, contextText string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.response, f.err
}

func (f *fakeBackend) Health(ctx context.Context) error { return nil }

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newMemoryCache(t *testing.T) *ResponseCache {
	t.Helper()
	return NewResponseCache(domain.CacheConfig{
		Enabled:    true,
		TTL:        time.Minute,
		MemorySize: 16,
	}, newQuietLogger())
}

func TestResilientClient_PassesThroughSuccess(t *testing.T) {
	backend := &fakeBackend{response: "a real answer"}
	client := NewResilientClient(backend, nil, ResilientConfig{Model: "llama3.2"}, newQuietLogger())

	got, err := client.Generate(context.Background(), "question", "context")
	require.NoError(t, err)
	assert.Equal(t, "a real answer", got)
	assert.Equal(t, 1, backend.callCount())
}

func TestResilientClient_FallbackMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "status error maps to service unavailable",
			err:  &StatusError{Provider: "fake", Code: http.StatusBadGateway},
			want: FallbackServiceUnavailable,
		},
		{
			name: "transport error maps to technical difficulties",
			err:  errors.New("connection refused"),
			want: FallbackTechnicalDifficulties,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{err: tt.err}
			client := NewResilientClient(backend, nil, ResilientConfig{Model: "llama3.2"}, newQuietLogger())

			got, err := client.Generate(context.Background(), "question", "context")
			require.NoError(t, err, "failures must degrade, not error")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResilientClient_BreakerOpensAfterFailures(t *testing.T) {
	backend := &fakeBackend{err: errors.New("connection refused")}
	client := NewResilientClient(backend, nil, ResilientConfig{Model: "llama3.2"}, newQuietLogger())

	// Three straight failures trip the breaker.
	for i := 0; i < 3; i++ {
		got, err := client.Generate(context.Background(), "question", "context")
		require.NoError(t, err)
		assert.Equal(t, FallbackTechnicalDifficulties, got)
	}
	assert.Equal(t, 3, backend.callCount())
	assert.Equal(t, gobreaker.StateOpen, client.BreakerState())

	// Open breaker short-circuits without touching the backend.
	got, err := client.Generate(context.Background(), "question", "context")
	require.NoError(t, err)
	assert.Equal(t, FallbackTechnicalDifficulties, got)
	assert.Equal(t, 3, backend.callCount())
}

func TestResilientClient_CachesSuccessfulCompletions(t *testing.T) {
	backend := &fakeBackend{response: "cached answer"}
	client := NewResilientClient(backend, newMemoryCache(t), ResilientConfig{Model: "llama3.2"}, newQuietLogger())

	first, err := client.Generate(context.Background(), "question", "context")
	require.NoError(t, err)

	second, err := client.Generate(context.Background(), "question", "context")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, backend.callCount(), "second call must come from cache")

	stats := client.CacheStats()
	assert.Equal(t, int64(1), stats.MemoryHits)
	assert.Equal(t, int64(1), stats.MemoryMisses)
}

func TestResilientClient_DistinctPromptsMissTheCache(t *testing.T) {
	backend := &fakeBackend{response: "answer"}
	client := NewResilientClient(backend, newMemoryCache(t), ResilientConfig{Model: "llama3.2"}, newQuietLogger())

	_, err := client.Generate(context.Background(), "question one", "context")
	require.NoError(t, err)
	_, err = client.Generate(context.Background(), "question two", "context")
	require.NoError(t, err)

	assert.Equal(t, 2, backend.callCount())
}

func TestResilientClient_NeverCachesFallbacks(t *testing.T) {
	backend := &fakeBackend{response: FallbackEmptyResponse}
	client := NewResilientClient(backend, newMemoryCache(t), ResilientConfig{Model: "llama3.2"}, newQuietLogger())

	for i := 0; i < 2; i++ {
		got, err := client.Generate(context.Background(), "question", "context")
		require.NoError(t, err)
		assert.Equal(t, FallbackEmptyResponse, got)
	}

	assert.Equal(t, 2, backend.callCount(), "fallbacks must not be served from cache")
}

func TestCacheKeyIsStableAndDistinct(t *testing.T) {
	base := cacheKey("ollama", "llama3.2", "context", "prompt")

	assert.Equal(t, base, cacheKey("ollama", "llama3.2", "context", "prompt"))
	assert.NotEqual(t, base, cacheKey("ollama", "llama3.2", "context", "other prompt"))
	assert.NotEqual(t, base, cacheKey("ollama", "llama3.2", "other context", "prompt"))
	assert.NotEqual(t, base, cacheKey("ollama", "mistral", "context", "prompt"))
	assert.NotEqual(t, base, cacheKey("openai", "llama3.2", "context", "prompt"))
}

func TestResponseCache_GetSet(t *testing.T) {
	cache := newMemoryCache(t)

	_, found := cache.Get(context.Background(), "missing")
	assert.False(t, found)

	cache.Set(context.Background(), "key", "value")
	got, found := cache.Get(context.Background(), "key")
	assert.True(t, found)
	assert.Equal(t, "value", got)
}

func TestNewTextGenerator(t *testing.T) {
	base := &domain.Config{
		Ollama: domain.OllamaConfig{
			BaseURL: "http://localhost:11434",
			Model:   "llama3.2",
		},
	}

	t.Run("defaults to ollama", func(t *testing.T) {
		gen, err := NewTextGenerator(base, newQuietLogger())
		require.NoError(t, err)
		assert.Equal(t, "ollama", gen.Name())
	})

	t.Run("openai provider", func(t *testing.T) {
		cfg := *base
		cfg.LLM.Provider = "openai"

		gen, err := NewTextGenerator(&cfg, newQuietLogger())
		require.NoError(t, err)
		assert.Equal(t, "openai", gen.Name())
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := *base
		cfg.LLM.Provider = "parrot"

		_, err := NewTextGenerator(&cfg, newQuietLogger())
		require.Error(t, err)
	})
}
