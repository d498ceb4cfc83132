package runguard

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/salesops/backend/internal/domain/shared"
	"github.com/salesops/backend/internal/infrastructure/config"
)

// RedisGuard implements RunGuard using Redis SETNX.
// Required when multiple instances can start reconciliation runs; the
// lock is visible across all of them and expires through the Redis TTL
// if the holder crashes.
type RedisGuard struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisGuard creates a new Redis-backed run guard
func NewRedisGuard(cfg *config.RedisConfig) (*RedisGuard, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisGuard{
		client:    client,
		keyPrefix: "runguard:",
	}, nil
}

// NewRedisGuardWithClient creates a guard with an existing Redis client (for testing)
func NewRedisGuardWithClient(client *redis.Client, keyPrefix string) *RedisGuard {
	return &RedisGuard{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Acquire takes the lock for a key using SETNX.
// Returns true if the lock was newly acquired, false if another holder
// still has it.
func (g *RedisGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	fullKey := g.keyPrefix + key

	acquired, err := g.client.SetNX(ctx, fullKey, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock for key %s: %w", key, err)
	}

	return acquired, nil
}

// Release releases the lock for a key
func (g *RedisGuard) Release(ctx context.Context, key string) error {
	fullKey := g.keyPrefix + key

	if err := g.client.Del(ctx, fullKey).Err(); err != nil {
		return fmt.Errorf("failed to release lock for key %s: %w", key, err)
	}

	return nil
}

// Close closes the Redis connection
func (g *RedisGuard) Close() error {
	return g.client.Close()
}

// GetClient returns the underlying Redis client (for advanced usage)
func (g *RedisGuard) GetClient() *redis.Client {
	return g.client
}

// Ensure RedisGuard implements RunGuard
var _ shared.RunGuard = (*RedisGuard)(nil)
