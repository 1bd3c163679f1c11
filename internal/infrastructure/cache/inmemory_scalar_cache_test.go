package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryScalarCache_GetSet(t *testing.T) {
	c := NewInMemoryScalarCache(time.Minute)
	defer c.Close()

	ctx := context.Background()

	t.Run("miss on unknown key", func(t *testing.T) {
		_, ok, err := c.Get(ctx, "unknown")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("returns stored value", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "company_currency:ACME", "USD", time.Hour))

		value, ok, err := c.Get(ctx, "company_currency:ACME")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "USD", value)
	})

	t.Run("overwrites", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "k", "a", time.Hour))
		require.NoError(t, c.Set(ctx, "k", "b", time.Hour))

		value, _, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "b", value)
	})
}

func TestInMemoryScalarCache_Expiration(t *testing.T) {
	c := NewInMemoryScalarCache(time.Hour)
	defer c.Close()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", "1", time.Minute))
	require.NoError(t, c.Set(ctx, "forever", "2", 0))

	now = now.Add(2 * time.Minute)

	_, ok, err := c.Get(ctx, "short")
	require.NoError(t, err)
	assert.False(t, ok, "expired entry should be a miss")

	value, ok, err := c.Get(ctx, "forever")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", value)

	assert.Equal(t, 2, c.Size())
	c.cleanup()
	assert.Equal(t, 1, c.Size())
}

func TestInMemoryScalarCache_Concurrency(t *testing.T) {
	c := NewInMemoryScalarCache(time.Minute)
	defer c.Close()

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i%5))
			_ = c.Set(ctx, key, "v", time.Minute)
			_, _, _ = c.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, c.Size())
}

func TestInMemoryScalarCache_CloseIsIdempotent(t *testing.T) {
	c := NewInMemoryScalarCache(time.Minute)
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}
