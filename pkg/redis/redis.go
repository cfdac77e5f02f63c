package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/okim/optionlogic-backend/config"
	"github.com/okim/optionlogic-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// CacheSnapshot stores a serialized option set snapshot under the set's key.
func CacheSnapshot(ctx context.Context, setID uint, payload []byte, ttl time.Duration) error {
	key := snapshotKey(setID)
	if err := client.Set(ctx, key, payload, ttl).Err(); err != nil {
		logger.Error("Failed to cache option set snapshot", err, map[string]interface{}{
			"option_set_id": setID,
		})
		return err
	}
	return nil
}

// GetSnapshot returns the cached snapshot, or (nil, nil) on a cache miss.
func GetSnapshot(ctx context.Context, setID uint) ([]byte, error) {
	payload, err := client.Get(ctx, snapshotKey(setID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		logger.Error("Failed to read option set snapshot from cache", err, map[string]interface{}{
			"option_set_id": setID,
		})
		return nil, err
	}
	return payload, nil
}

// InvalidateSnapshot drops the cached snapshot after an admin edit.
func InvalidateSnapshot(ctx context.Context, setID uint) error {
	if err := client.Del(ctx, snapshotKey(setID)).Err(); err != nil {
		logger.Error("Failed to invalidate option set snapshot", err, map[string]interface{}{
			"option_set_id": setID,
		})
		return err
	}
	return nil
}

func snapshotKey(setID uint) string {
	return fmt.Sprintf("optionset:snapshot:%d", setID)
}
