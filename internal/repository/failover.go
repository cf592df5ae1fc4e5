package repository

import (
	"context"
	"sync/atomic"
	"time"

	"sharik/internal/domain"

	"github.com/rs/zerolog"
)

// FailoverLimiterRepository переключается на резервное хранилище при
// ошибках основного и периодически пробует вернуться.
type FailoverLimiterRepository struct {
	primary  domain.LimiterRepository
	fallback domain.LimiterRepository
	logger   *zerolog.Logger
	isDown   atomic.Bool
	// lastCheck хранит unix-наносекунды: читается и пишется из
	// конкурентных HTTP-запросов.
	lastCheck atomic.Int64
}

func NewFailoverLimiterRepository(primary, fallback domain.LimiterRepository, logger *zerolog.Logger) *FailoverLimiterRepository {
	return &FailoverLimiterRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverLimiterRepository) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	if !r.isDown.Load() {
		allowed, err := r.primary.CheckRateLimit(ctx, userID, limit, window)
		if err == nil {
			return allowed, nil
		}
		r.logger.Error().Err(err).Msg("Primary limiter repository failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck.Store(time.Now().UnixNano())
	}

	// Try to recover after 1 minute
	if r.isDown.Load() && time.Now().UnixNano()-r.lastCheck.Load() > int64(time.Minute) {
		allowed, err := r.primary.CheckRateLimit(ctx, userID, limit, window)
		if err == nil {
			r.isDown.Store(false)
			return allowed, nil
		}
		r.lastCheck.Store(time.Now().UnixNano())
	}

	return r.fallback.CheckRateLimit(ctx, userID, limit, window)
}
