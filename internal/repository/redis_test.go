package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLimiterRepository(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	defer client.Close()

	repo := NewRedisLimiterRepository(client)
	ctx := context.Background()

	t.Run("RateLimit", func(t *testing.T) {
		userID := int64(789)
		limit := 2
		window := time.Minute

		allowed, err := repo.CheckRateLimit(ctx, userID, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = repo.CheckRateLimit(ctx, userID, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)

		// Третий запрос превышает лимит
		allowed, err = repo.CheckRateLimit(ctx, userID, limit, window)
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("WindowReset", func(t *testing.T) {
		userID := int64(790)

		allowed, err := repo.CheckRateLimit(ctx, userID, 1, time.Second)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = repo.CheckRateLimit(ctx, userID, 1, time.Second)
		require.NoError(t, err)
		assert.False(t, allowed)

		// По истечении окна счётчик сбрасывается
		s.FastForward(2 * time.Second)

		allowed, err = repo.CheckRateLimit(ctx, userID, 1, time.Second)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("IndependentUsers", func(t *testing.T) {
		allowed, err := repo.CheckRateLimit(ctx, 1001, 1, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = repo.CheckRateLimit(ctx, 1002, 1, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("NilClient", func(t *testing.T) {
		nilRepo := NewRedisLimiterRepository(nil)
		_, err := nilRepo.CheckRateLimit(ctx, 1, 1, time.Minute)
		assert.Error(t, err)
	})
}

func TestPing(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	assert.NoError(t, Ping(context.Background(), client))

	s.Close()
	assert.Error(t, Ping(context.Background(), client))
}
