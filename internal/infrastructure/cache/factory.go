package cache

import (
	"fmt"

	"github.com/erp/ledgerreport/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ScalarCacheFactory creates the lookup cache selected by configuration
type ScalarCacheFactory struct {
	redisConfig config.RedisConfig
	cacheConfig config.CacheConfig
	logger      *zap.Logger
}

// ScalarCacheFactoryOption is a functional option for configuring the factory
type ScalarCacheFactoryOption func(*ScalarCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) ScalarCacheFactoryOption {
	return func(f *ScalarCacheFactory) {
		f.logger = logger
	}
}

// NewScalarCacheFactory creates a new factory
func NewScalarCacheFactory(redisCfg config.RedisConfig, cacheCfg config.CacheConfig, opts ...ScalarCacheFactoryOption) *ScalarCacheFactory {
	f := &ScalarCacheFactory{
		redisConfig: redisCfg,
		cacheConfig: cacheCfg,
		logger:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisCache creates a Redis-based cache
func (f *ScalarCacheFactory) CreateRedisCache() (ScalarCache, error) {
	c, err := NewRedisScalarCache(f.redisConfig, f.cacheConfig.KeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis cache: %w", err)
	}
	return c, nil
}

// CreateInMemoryCache creates an in-memory cache
// In-memory caches do not share state across process instances
func (f *ScalarCacheFactory) CreateInMemoryCache() ScalarCache {
	return NewInMemoryScalarCache(f.cacheConfig.TTL)
}

// CreateCache returns the configured backend, or nil when caching is
// disabled. A Redis backend falls back to memory when Redis is unreachable
// and the fallback is allowed.
func (f *ScalarCacheFactory) CreateCache() (ScalarCache, error) {
	if !f.cacheConfig.Enabled {
		f.logger.Info("lookup cache disabled")
		return nil, nil
	}

	if f.cacheConfig.Backend != "redis" {
		f.logger.Info("using in-memory lookup cache")
		return f.CreateInMemoryCache(), nil
	}

	c, err := f.CreateRedisCache()
	if err == nil {
		f.logger.Info("using Redis lookup cache", zap.String("addr", f.redisConfig.Addr()))
		return c, nil
	}

	if !f.cacheConfig.FallbackToMemory {
		return nil, fmt.Errorf("Redis required for lookup cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory lookup cache", zap.Error(err))
	return f.CreateInMemoryCache(), nil
}
