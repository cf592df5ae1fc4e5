package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sharik/internal/config"
	"sharik/internal/domain"
	"sharik/internal/metrics"
	"sharik/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

func loggingMiddleware(logger *zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		dur := time.Since(start)
		metrics.IncHTTP(r.URL.Path, strconv.Itoa(recorder.status))
		logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", dur).
			Msg("http request")
	})
}

// globalLimitMiddleware защищает сервис целиком от всплесков трафика.
func globalLimitMiddleware(cfg config.RateLimitConfig, next http.Handler) http.Handler {
	rps := cfg.RPS
	if rps <= 0 {
		rps = 100
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = int(rps)
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// userLimitMiddleware ограничивает частоту запросов конкретного пользователя
// по заголовку X-Sharer-User-Id. Запросы без заголовка пропускаются —
// их отклонят сами обработчики.
func userLimitMiddleware(cfg config.RateLimitConfig, limiter domain.LimiterRepository, logger *zerolog.Logger, next http.Handler) http.Handler {
	requests := cfg.UserRequests
	if requests <= 0 {
		requests = models.RateLimitRequests
	}
	window := time.Duration(cfg.UserWindow) * time.Second
	if window <= 0 {
		window = models.RateLimitWindow * time.Second
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		raw := strings.TrimSpace(r.Header.Get(models.SharerUserHeader))
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		allowed, err := limiter.CheckRateLimit(r.Context(), userID, requests, window)
		if err != nil {
			logger.Error().Err(err).Int64("user_id", userID).Msg("rate limit check error")
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
