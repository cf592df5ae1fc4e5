package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterRepository(t *testing.T) {
	repo := NewMemoryLimiterRepository()
	ctx := context.Background()

	t.Run("RateLimit", func(t *testing.T) {
		userID := int64(1)

		for i := 0; i < 3; i++ {
			allowed, err := repo.CheckRateLimit(ctx, userID, 3, time.Minute)
			require.NoError(t, err)
			assert.True(t, allowed, "request %d", i)
		}

		allowed, err := repo.CheckRateLimit(ctx, userID, 3, time.Minute)
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("WindowReset", func(t *testing.T) {
		userID := int64(2)

		allowed, err := repo.CheckRateLimit(ctx, userID, 1, 10*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = repo.CheckRateLimit(ctx, userID, 1, 10*time.Millisecond)
		require.NoError(t, err)
		assert.False(t, allowed)

		time.Sleep(20 * time.Millisecond)

		allowed, err = repo.CheckRateLimit(ctx, userID, 1, 10*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}
