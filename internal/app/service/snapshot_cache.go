package service

import (
	"context"
	"time"

	"github.com/okim/optionlogic-backend/pkg/redis"
)

// redisSnapshotCache backs SnapshotCache with the shared Redis client.
type redisSnapshotCache struct{}

func NewRedisSnapshotCache() SnapshotCache {
	return redisSnapshotCache{}
}

func (redisSnapshotCache) Get(ctx context.Context, setID uint) ([]byte, error) {
	return redis.GetSnapshot(ctx, setID)
}

func (redisSnapshotCache) Set(ctx context.Context, setID uint, payload []byte, ttl time.Duration) error {
	return redis.CacheSnapshot(ctx, setID, payload, ttl)
}

func (redisSnapshotCache) Invalidate(ctx context.Context, setID uint) error {
	return redis.InvalidateSnapshot(ctx, setID)
}
