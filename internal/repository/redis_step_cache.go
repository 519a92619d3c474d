package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"edubank-server/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ StepCache = (*redisStepCache)(nil)

type redisStepCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStepCache creates a new Redis-backed step map cache.
// Сценарии после публикации неизменяемы, поэтому TTL - единственная инвалидация.
func NewRedisStepCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) StepCache {
	return &redisStepCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("RedisStepCache"),
	}
}

func stepCacheKey(scenarioID uuid.UUID) string {
	return fmt.Sprintf("scenario_steps:%s", scenarioID.String())
}

func (c *redisStepCache) GetSteps(ctx context.Context, scenarioID uuid.UUID) ([]*models.Step, error) {
	data, err := c.client.Get(ctx, stepCacheKey(scenarioID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, models.ErrNotFound
		}
		c.logger.Warn("Failed to read step cache", zap.Stringer("scenarioID", scenarioID), zap.Error(err))
		return nil, err
	}
	var steps []*models.Step
	if err := json.Unmarshal(data, &steps); err != nil {
		c.logger.Warn("Corrupted step cache entry, treating as miss", zap.Stringer("scenarioID", scenarioID), zap.Error(err))
		return nil, models.ErrNotFound
	}
	return steps, nil
}

func (c *redisStepCache) SetSteps(ctx context.Context, scenarioID uuid.UUID, steps []*models.Step) error {
	data, err := json.Marshal(steps)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, stepCacheKey(scenarioID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to write step cache", zap.Stringer("scenarioID", scenarioID), zap.Error(err))
		return err
	}
	return nil
}
