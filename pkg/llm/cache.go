package llm

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/genehive/genehive-server/internal/domain"
)

const (
	defaultCacheTTL        = 15 * time.Minute
	defaultMemoryCacheSize = 1000
)

// ResponseCache stores generated completions in two tiers: an in-process
// LRU for hot entries and an optional Redis tier shared across instances.
// Redis being unreachable degrades the cache to memory-only; it never
// fails a request.
type ResponseCache struct {
	memory *expirable.LRU[string, string]
	redis  *redis.Client
	ttl    time.Duration
	logger *logrus.Logger

	statsMu sync.RWMutex
	stats   CacheStats
}

// CacheStats represents cache performance statistics
type CacheStats struct {
	MemoryHits   int64     `json:"memory_hits"`
	MemoryMisses int64     `json:"memory_misses"`
	RedisHits    int64     `json:"redis_hits"`
	RedisMisses  int64     `json:"redis_misses"`
	LastReset    time.Time `json:"last_reset"`
}

// cachedResponse wraps a completion with expiry metadata for the Redis
// tier.
type cachedResponse struct {
	Response  string    `json:"response"`
	CachedAt  time.Time `json:"cached_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewResponseCache creates the response cache. The memory tier is always
// available; the Redis tier is attached only when a URL is configured and
// reachable.
func NewResponseCache(config domain.CacheConfig, logger *logrus.Logger) *ResponseCache {
	ttl := config.TTL
	if ttl == 0 {
		ttl = defaultCacheTTL
	}
	size := config.MemorySize
	if size == 0 {
		size = defaultMemoryCacheSize
	}

	c := &ResponseCache{
		memory: expirable.NewLRU[string, string](size, nil, ttl),
		ttl:    ttl,
		logger: logger,
		stats: CacheStats{
			LastReset: time.Now(),
		},
	}

	if config.RedisURL == "" {
		return c
	}

	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		logger.WithError(err).Warn("Invalid Redis URL, response cache runs memory-only")
		return c
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("Redis unreachable, response cache runs memory-only")
		client.Close()
		return c
	}

	c.redis = client
	logger.WithField("ttl", ttl).Info("Redis response cache attached")
	return c
}

// Get looks a completion up, memory tier first. Redis hits are promoted
// into the memory tier.
func (c *ResponseCache) Get(ctx context.Context, key string) (string, bool) {
	if value, ok := c.memory.Get(key); ok {
		c.incrementStat("memory_hits")
		return value, true
	}
	c.incrementStat("memory_misses")

	if c.redis == nil {
		return "", false
	}

	val, err := c.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		c.incrementStat("redis_misses")
		return "", false
	}
	if err != nil {
		c.logger.WithError(err).Warn("Redis cache lookup failed")
		c.incrementStat("redis_misses")
		return "", false
	}

	var cached cachedResponse
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		// Remove corrupted cache entry
		c.redis.Del(ctx, key)
		c.incrementStat("redis_misses")
		return "", false
	}

	if time.Now().After(cached.ExpiresAt) {
		c.redis.Del(ctx, key)
		c.incrementStat("redis_misses")
		return "", false
	}

	c.incrementStat("redis_hits")
	c.memory.Add(key, cached.Response)
	return cached.Response, true
}

// Set stores a completion in both tiers.
func (c *ResponseCache) Set(ctx context.Context, key, response string) {
	c.memory.Add(key, response)

	if c.redis == nil {
		return
	}

	cached := cachedResponse{
		Response:  response,
		CachedAt:  time.Now(),
		ExpiresAt: time.Now().Add(c.ttl),
	}

	data, err := json.Marshal(cached)
	if err != nil {
		c.logger.WithError(err).Warn("Failed to marshal cache entry")
		return
	}

	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.WithError(err).Warn("Failed to store response in Redis")
	}
}

// Stats returns a snapshot of the cache counters.
func (c *ResponseCache) Stats() CacheStats {
	c.statsMu.RLock()
	defer c.statsMu.RUnlock()
	return c.stats
}

// Close releases the Redis connection if one is attached.
func (c *ResponseCache) Close() error {
	if c.redis != nil {
		return c.redis.Close()
	}
	return nil
}

// incrementStat bumps one counter under the stats lock.
func (c *ResponseCache) incrementStat(stat string) {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()

	switch stat {
	case "memory_hits":
		c.stats.MemoryHits++
	case "memory_misses":
		c.stats.MemoryMisses++
	case "redis_hits":
		c.stats.RedisHits++
	case "redis_misses":
		c.stats.RedisMisses++
	}
}

// cacheKey derives a stable key from everything that shapes a completion.
func cacheKey(provider, model, contextText, prompt string) string {
	data := fmt.Sprintf("%s|%s|%s|%s", provider, model, contextText, prompt)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("llm:generate:%x", hash[:8])
}
