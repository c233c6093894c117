package cache

import (
	"context"
	"testing"
	"time"

	"wardrobe-rental-backend/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisAvailabilityCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisAvailabilityCache(client, time.Minute), mr
}

func lookupWindow() domain.DateWindow {
	return domain.NewDateWindow(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC), domain.GrainDay)
}

func TestGet_CacheMiss(t *testing.T) {
	c, _ := setupTestRedis(t)

	got, err := c.Get(context.Background(), 1, lookupWindow())
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, got)
}

func TestSetThenGet(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()
	lookup := lookupWindow()
	ranges := []domain.DateWindow{
		domain.NewDateWindow(time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC), time.Date(2026, 6, 9, 0, 0, 0, 0, time.UTC), domain.GrainDay),
	}

	require.NoError(t, c.Set(ctx, 1, lookup, ranges))
	assert.True(t, mr.Exists(entryKey(1, 0, lookup)))
	assert.Greater(t, mr.TTL(entryKey(1, 0, lookup)), time.Duration(0))

	got, err := c.Get(ctx, 1, lookup)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Equal(ranges[0]))
	assert.Equal(t, 7, got[0].Len())
}

func TestSet_EmptyIsCached(t *testing.T) {
	c, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 1, lookupWindow(), nil))
	got, err := c.Get(ctx, 1, lookupWindow())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestInvalidate(t *testing.T) {
	c, _ := setupTestRedis(t)
	ctx := context.Background()
	lookup := lookupWindow()

	require.NoError(t, c.Set(ctx, 1, lookup, []domain.DateWindow{lookup}))
	require.NoError(t, c.Set(ctx, 2, lookup, []domain.DateWindow{lookup}))
	require.NoError(t, c.Invalidate(ctx, 1))

	_, err := c.Get(ctx, 1, lookup)
	assert.ErrorIs(t, err, ErrCacheMiss)

	_, err = c.Get(ctx, 2, lookup)
	assert.NoError(t, err)
}

func TestGet_InvalidJSON(t *testing.T) {
	c, mr := setupTestRedis(t)
	lookup := lookupWindow()
	require.NoError(t, mr.Set(entryKey(1, 0, lookup), "not json"))

	_, err := c.Get(context.Background(), 1, lookup)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestNoopCache(t *testing.T) {
	c := NewNoopCache()
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, 1, lookupWindow(), nil))
	_, err := c.Get(ctx, 1, lookupWindow())
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, c.Invalidate(ctx, 1))
}
