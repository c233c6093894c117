package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"wardrobe-rental-backend/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisAvailabilityCache keys entries by a per-unit version counter. Invalidate bumps
// the counter so stale entries are never read again and expire on their own.
type RedisAvailabilityCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisAvailabilityCache(client *redis.Client, ttl time.Duration) *RedisAvailabilityCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisAvailabilityCache{client: client, baseTTL: ttl}
}

func (r *RedisAvailabilityCache) Get(ctx context.Context, unitID int32, lookup domain.DateWindow) ([]domain.DateWindow, error) {
	version, err := r.version(ctx, unitID)
	if err != nil {
		return nil, err
	}

	data, err := r.client.Get(ctx, entryKey(unitID, version, lookup)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var ranges []domain.DateWindow
	if err := json.Unmarshal(data, &ranges); err != nil {
		return nil, fmt.Errorf("unmarshal availability failed: %w", err)
	}
	for i := range ranges {
		ranges[i].Grain = lookup.Grain
	}
	return ranges, nil
}

func (r *RedisAvailabilityCache) Set(ctx context.Context, unitID int32, lookup domain.DateWindow, ranges []domain.DateWindow) error {
	version, err := r.version(ctx, unitID)
	if err != nil {
		return err
	}
	if ranges == nil {
		ranges = []domain.DateWindow{}
	}
	data, err := json.Marshal(ranges)
	if err != nil {
		return fmt.Errorf("marshal availability failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(30)) * time.Second
	if err := r.client.Set(ctx, entryKey(unitID, version, lookup), data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisAvailabilityCache) Invalidate(ctx context.Context, unitID int32) error {
	if err := r.client.Incr(ctx, versionKey(unitID)).Err(); err != nil {
		return fmt.Errorf("redis incr failed: %w", err)
	}
	return nil
}

func (r *RedisAvailabilityCache) version(ctx context.Context, unitID int32) (int64, error) {
	v, err := r.client.Get(ctx, versionKey(unitID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get version failed: %w", err)
	}
	return v, nil
}

func versionKey(unitID int32) string {
	return fmt.Sprintf("availability:unit:%d:version", unitID)
}

func entryKey(unitID int32, version int64, lookup domain.DateWindow) string {
	return fmt.Sprintf("availability:unit:%d:v%d:%s:%s:%s", unitID, version, lookup.Grain,
		lookup.From.Format(time.RFC3339), lookup.Till.Format(time.RFC3339))
}
