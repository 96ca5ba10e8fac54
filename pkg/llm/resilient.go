package llm

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/genehive/genehive-server/internal/domain"
)

// ResilientConfig tunes the protection around a text generation backend.
type ResilientConfig struct {
	// Model is folded into cache keys so different models never share
	// completions.
	Model string

	// RateLimit is the sustained request rate per second toward the
	// backend. Zero disables limiting.
	RateLimit float64
	RateBurst int
}

// ResilientClient wraps a text generation backend with a circuit breaker,
// a rate limiter and the response cache. Backend failures never surface to
// callers; they degrade into canned counselor-safe messages and the API
// keeps answering with a 200.
type ResilientClient struct {
	client  domain.TextGenerator
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	cache   *ResponseCache
	model   string
	logger  *logrus.Logger
}

// NewResilientClient creates the protective wrapper. The cache may be nil
// when response caching is disabled.
func NewResilientClient(client domain.TextGenerator, cache *ResponseCache, config ResilientConfig, logger *logrus.Logger) *ResilientClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        client.Name(),
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		burst := config.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), burst)
	}

	return &ResilientClient{
		client:  client,
		breaker: breaker,
		limiter: limiter,
		cache:   cache,
		model:   config.Model,
		logger:  logger,
	}
}

// Generate returns a completion for the prompt, cache first. Every failure
// mode maps to a fallback message with a nil error; fallbacks are never
// written back to the cache.
func (r *ResilientClient) Generate(ctx context.Context, prompt, contextText string) (string, error) {
	key := cacheKey(r.client.Name(), r.model, contextText, prompt)

	if r.cache != nil {
		if cached, found := r.cache.Get(ctx, key); found {
			r.logger.Debug("Serving completion from cache")
			return cached, nil
		}
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			r.logger.WithError(err).Warn("Gave up waiting for rate limiter")
			return FallbackTechnicalDifficulties, nil
		}
	}

	result, err := r.breaker.Execute(func() (interface{}, error) {
		return r.client.Generate(ctx, prompt, contextText)
	})
	if err != nil {
		return r.fallbackFor(err), nil
	}

	response := result.(string)
	if r.cache != nil && !IsFallback(response) {
		r.cache.Set(ctx, key, response)
	}

	return response, nil
}

// fallbackFor maps a backend failure to the message shown to the user.
func (r *ResilientClient) fallbackFor(err error) string {
	var statusErr *StatusError

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		r.logger.WithField("backend", r.client.Name()).Warn("Circuit breaker rejecting model calls")
		return FallbackTechnicalDifficulties
	case errors.As(err, &statusErr):
		r.logger.WithFields(logrus.Fields{
			"backend":     statusErr.Provider,
			"status_code": statusErr.Code,
		}).Error("Model backend returned an error status")
		return FallbackServiceUnavailable
	default:
		r.logger.WithError(err).Error("Model backend call failed")
		return FallbackTechnicalDifficulties
	}
}

// Health checks the wrapped backend directly, bypassing the breaker. A
// tripped generate path still reports live backend status.
func (r *ResilientClient) Health(ctx context.Context) error {
	return r.client.Health(ctx)
}

// Name identifies the wrapped backend.
func (r *ResilientClient) Name() string {
	return r.client.Name()
}

// BreakerState exposes the circuit breaker state for diagnostics.
func (r *ResilientClient) BreakerState() gobreaker.State {
	return r.breaker.State()
}

// CacheStats returns response cache counters, zero-valued when caching is
// disabled.
func (r *ResilientClient) CacheStats() CacheStats {
	if r.cache == nil {
		return CacheStats{}
	}
	return r.cache.Stats()
}
