package repository

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/stringing-service/internal/domain"
)

// AnalyticsCache stores computed UserAnalytics documents keyed by user.
// Get returns (nil, nil) on a cache miss. Entries have no expiry; staleness
// is visible to callers through the document's ComputedAt watermark and a
// refresh request overwrites the entry unconditionally.
type AnalyticsCache interface {
	Get(ctx context.Context, userID string) (*domain.UserAnalytics, error)
	Put(ctx context.Context, analytics *domain.UserAnalytics) error
	Invalidate(ctx context.Context, userID string) error
}

type redisAnalyticsCache struct {
	client *redis.Client
}

// NewAnalyticsCache wraps a Redis client as an analytics cache.
func NewAnalyticsCache(client *redis.Client) AnalyticsCache {
	return &redisAnalyticsCache{client: client}
}

func analyticsKey(userID string) string {
	return "analytics:user:" + userID
}

func (c *redisAnalyticsCache) Get(ctx context.Context, userID string) (*domain.UserAnalytics, error) {
	payload, err := c.client.Get(ctx, analyticsKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var analytics domain.UserAnalytics
	if err := json.Unmarshal(payload, &analytics); err != nil {
		// A corrupt entry is treated as a miss; the caller recomputes.
		return nil, nil
	}
	return &analytics, nil
}

func (c *redisAnalyticsCache) Put(ctx context.Context, analytics *domain.UserAnalytics) error {
	payload, err := json.Marshal(analytics)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, analyticsKey(analytics.UserID), payload, 0).Err()
}

func (c *redisAnalyticsCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, analyticsKey(userID)).Err()
}
