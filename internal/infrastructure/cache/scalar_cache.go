// Package cache holds the scalar lookup cache used by the reports: a Redis
// backed store shared across instances, an in-memory store for single
// instances and tests, and a LookupRepository decorator reading through them.
package cache

import (
	"context"
	"time"
)

// ScalarCache stores short string values under string keys with a TTL
type ScalarCache interface {
	// Get returns the cached value and whether it was found
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value for ttl. A zero ttl keeps the value until evicted.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Close releases the cache's resources
	Close() error
}
