package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waste-route-service/internal/domain"
)

func newTestCache(t *testing.T) (*RedisPlanCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisPlanCache(client, time.Minute), mr
}

func TestRedisPlanCacheRoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok)

	vid := int64(3)
	plan := &domain.OptimizationResult{
		PlanID:        "p-9",
		Routes:        []domain.Route{{RouteID: 1, VehicleID: &vid}},
		TotalDistance: 4.2,
	}
	require.NoError(t, c.Put(ctx, "abc", plan))
	assert.True(t, mr.Exists(planKeyPrefix+"abc"))

	got, ok, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "p-9", got.PlanID)
	assert.Equal(t, 4.2, got.TotalDistance)
	require.Len(t, got.Routes, 1)
	assert.Equal(t, int64(3), *got.Routes[0].VehicleID)
}

func TestRedisPlanCacheExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "k", &domain.OptimizationResult{PlanID: "p-1"}))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisPlanCacheCorruptEntry(t *testing.T) {
	c, mr := newTestCache(t)

	require.NoError(t, mr.Set(planKeyPrefix+"bad", "not json"))

	_, _, err := c.Get(context.Background(), "bad")
	assert.Error(t, err)
}

func TestDialRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := DialRedis(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	_ = client.Close()

	_, err = DialRedis(context.Background(), "not-a-url")
	assert.Error(t, err)
}
