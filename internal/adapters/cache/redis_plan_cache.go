package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"waste-route-service/internal/domain"
	"waste-route-service/internal/platform/obs"
)

const planKeyPrefix = "wrs:plan:"

// RedisPlanCache stores optimization results as JSON under their input
// fingerprint for a fixed TTL.
type RedisPlanCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPlanCache(client *redis.Client, ttl time.Duration) *RedisPlanCache {
	return &RedisPlanCache{client: client, ttl: ttl}
}

// Connect a client from a redis:// URL and verify it responds.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("dial redis: parse url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("dial redis: ping: %w", err)
	}
	return client, nil
}

func (c *RedisPlanCache) Get(ctx context.Context, key string) (_ *domain.OptimizationResult, _ bool, err error) {
	defer obs.Time(ctx, "plan.cache.Get")(&err)

	b, err := c.client.Get(ctx, planKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get plan cache %s: %w", key, err)
	}

	var plan domain.OptimizationResult
	if err := json.Unmarshal(b, &plan); err != nil {
		return nil, false, fmt.Errorf("get plan cache %s: decode: %w", key, err)
	}
	return &plan, true, nil
}

func (c *RedisPlanCache) Put(ctx context.Context, key string, plan *domain.OptimizationResult) (err error) {
	defer obs.Time(ctx, "plan.cache.Put")(&err)

	b, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("put plan cache %s: encode: %w", key, err)
	}

	if err := c.client.Set(ctx, planKeyPrefix+key, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("put plan cache %s: %w", key, err)
	}
	return nil
}
