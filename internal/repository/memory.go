package repository

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiterRepository — резервное хранилище лимитов на случай
// недоступности Redis.
type MemoryLimiterRepository struct {
	rateLimits sync.Map
}

func NewMemoryLimiterRepository() *MemoryLimiterRepository {
	return &MemoryLimiterRepository{}
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

func (r *MemoryLimiterRepository) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	val, ok := r.rateLimits.Load(userID)

	var entry *rateLimitEntry
	if !ok {
		entry = &rateLimitEntry{
			count:     1,
			expiresAt: now.Add(window),
		}
	} else {
		entry = val.(*rateLimitEntry)
		if now.After(entry.expiresAt) {
			entry.count = 1
			entry.expiresAt = now.Add(window)
		} else {
			entry.count++
		}
	}

	r.rateLimits.Store(userID, entry)
	return entry.count <= limit, nil
}
