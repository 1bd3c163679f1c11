package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/ledgerreport/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces the report lookups in a shared Redis
const DefaultKeyPrefix = "ledger:"

// RedisScalarCache implements ScalarCache using Redis
// This is suitable for distributed deployments where multiple instances
// share lookups
type RedisScalarCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisScalarCache connects to Redis and checks the connection
func NewRedisScalarCache(cfg config.RedisConfig, keyPrefix string) (*RedisScalarCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisScalarCacheWithClient(client, keyPrefix), nil
}

// NewRedisScalarCacheWithClient creates a cache over an existing Redis client
func NewRedisScalarCacheWithClient(client *redis.Client, keyPrefix string) *RedisScalarCache {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &RedisScalarCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Get returns the value stored under key. A missing key is not an error.
func (c *RedisScalarCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Get(ctx, c.keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s from cache: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key for ttl
func (c *RedisScalarCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s in cache: %w", key, err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisScalarCache) Close() error {
	return c.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (c *RedisScalarCache) GetClient() *redis.Client {
	return c.client
}

var _ ScalarCache = (*RedisScalarCache)(nil)
