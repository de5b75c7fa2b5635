package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	err := client.Ping(ctx).Err()
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	client.FlushDB(ctx)

	t.Cleanup(func() {
		client.FlushDB(ctx)
		client.Close()
	})

	return client
}

func TestRedisRateLimiter_Allow_PerMinute(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client)

	config := RateLimitConfig{
		RequestsPerMinute: 5,
	}

	key := "test-key-minute"

	for i := 0; i < 5; i++ {
		allowed, err := limiter.Allow(key, config)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, err := limiter.Allow(key, config)
	require.NoError(t, err)
	assert.False(t, allowed, "6th request should be denied")
}

func TestRedisRateLimiter_Allow_ZeroLimitSkipsWindow(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client)

	config := RateLimitConfig{
		RequestsPerMinute: 0,
		RequestsPerHour:   0,
	}

	for i := 0; i < 20; i++ {
		allowed, err := limiter.Allow("unlimited-key", config)
		require.NoError(t, err)
		assert.True(t, allowed)
	}
}

func TestRedisRateLimiter_KeysAreIndependent(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client)

	config := RateLimitConfig{
		RequestsPerMinute: 2,
	}

	for i := 0; i < 2; i++ {
		allowed, err := limiter.Allow("key-a", config)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := limiter.Allow("key-a", config)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = limiter.Allow("key-b", config)
	require.NoError(t, err)
	assert.True(t, allowed, "a saturated key must not affect other keys")
}

func TestRedisRateLimiter_Reset(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client)

	config := RateLimitConfig{
		RequestsPerMinute: 1,
	}

	allowed, err := limiter.Allow("reset-key", config)
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = limiter.Allow("reset-key", config)
	require.NoError(t, err)
	require.False(t, allowed)

	require.NoError(t, limiter.Reset("reset-key"))

	allowed, err = limiter.Allow("reset-key", config)
	require.NoError(t, err)
	assert.True(t, allowed, "reset should clear the window")
}

func TestRedisRateLimiter_GetRemaining(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client)

	config := RateLimitConfig{
		RequestsPerMinute: 10,
	}

	for i := 0; i < 3; i++ {
		_, err := limiter.Allow("remaining-key", config)
		require.NoError(t, err)
	}

	count, err := limiter.GetRemaining("remaining-key", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
