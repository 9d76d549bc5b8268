package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/essayforge/essay-api/internal/models"
	"github.com/essayforge/essay-api/internal/repository"
)

// EvaluationCache is the dedup store consulted before every evaluator
// call. The results table is the source of truth; Redis is a TTL'd fast
// path in front of it. A hit guarantees the evaluator is not invoked
// again for the same (user, essay text) pair, which keeps repeated
// submissions deterministic even though the evaluator itself is not.
type EvaluationCache struct {
	cache   *redis.Client
	results repository.ResultRepository
	ttl     time.Duration
	logger  zerolog.Logger
}

// NewEvaluationCache builds the dedup store. The Redis client may be
// nil, in which case every lookup goes straight to the database.
func NewEvaluationCache(cache *redis.Client, results repository.ResultRepository, ttl time.Duration, logger zerolog.Logger) *EvaluationCache {
	return &EvaluationCache{
		cache:   cache,
		results: results,
		ttl:     ttl,
		logger:  logger.With().Str("component", "evaluation_cache").Logger(),
	}
}

func cacheKey(userID, essayText string) string {
	return "evaluation:" + models.TextDigest(userID+"\x00"+essayText)
}

// FindExisting returns the previously persisted evaluation for the
// exact (user, essay text) pair, if one exists. Redis failures degrade
// to a database lookup; database failures are returned to the caller.
func (c *EvaluationCache) FindExisting(ctx context.Context, userID, essayText string) (models.EvaluationResult, bool, error) {
	key := cacheKey(userID, essayText)

	if c.cache != nil {
		cached, err := c.cache.Get(ctx, key).Result()
		if err == nil {
			var result models.EvaluationResult
			if unmarshalErr := json.Unmarshal([]byte(cached), &result); unmarshalErr == nil {
				c.logger.Debug().Str("user_id", userID).Msg("evaluation cache hit")
				return result, true, nil
			}
		} else if err != redis.Nil {
			c.logger.Warn().Err(err).Msg("failed to read evaluation cache")
		}
	}

	result, err := c.results.FindByUserAndText(ctx, userID, essayText)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.EvaluationResult{}, false, nil
		}
		return models.EvaluationResult{}, false, err
	}

	c.Store(ctx, result)
	return result, true, nil
}

// Store places a persisted result in the Redis fast path. Failures are
// logged and swallowed; the durable lookup still covers the pair.
func (c *EvaluationCache) Store(ctx context.Context, result models.EvaluationResult) {
	if c.cache == nil {
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return
	}

	key := cacheKey(result.UserID, result.EssayText)
	if err := c.cache.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("failed to store evaluation cache")
	}
}
