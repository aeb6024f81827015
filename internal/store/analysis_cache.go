package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"opportunity-engine/internal/common/logger"
	"opportunity-engine/internal/models"
)

// RedisAnalysisCache caches scored analyses keyed by (tier, topic). All
// backend errors are swallowed and treated as cache misses; the cache is an
// optimization, never a dependency.
type RedisAnalysisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger
}

func NewRedisAnalysisCache(client *redis.Client, ttl time.Duration, log logger.Logger) *RedisAnalysisCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &RedisAnalysisCache{client: client, ttl: ttl, log: log}
}

func cacheKey(tier, topic string) string {
	return fmt.Sprintf("analysis:%s:%s", tier, topic)
}

func (c *RedisAnalysisCache) Get(ctx context.Context, tier, topic string) (*models.AIAnalysisResult, bool) {
	raw, err := c.client.Get(ctx, cacheKey(tier, topic)).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Debug("analysis cache read failed", map[string]interface{}{
				"topic": topic,
				"error": err.Error(),
			})
		}
		return nil, false
	}

	var result models.AIAnalysisResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, false
	}
	return &result, true
}

func (c *RedisAnalysisCache) Set(ctx context.Context, tier, topic string, result *models.AIAnalysisResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(tier, topic), payload, c.ttl).Err(); err != nil {
		c.log.Debug("analysis cache write failed", map[string]interface{}{
			"topic": topic,
			"error": err.Error(),
		})
	}
}
