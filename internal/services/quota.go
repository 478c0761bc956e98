package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/draftforge/draftforge-backend/internal/logger"
)

// RateLimiter guards the AI generation endpoints against burning through the
// upstream free-tier quota. Allow reports whether the user may issue another
// generation request right now.
type RateLimiter interface {
	Allow(ctx context.Context, userID uuid.UUID) (bool, error)
}

type redisRateLimiter struct {
	log    *logger.Logger
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRedisRateLimiter builds a fixed-window per-user limiter on Redis. The
// limiter fails open: Redis being down must never block generation.
func NewRedisRateLimiter(log *logger.Logger, client *redis.Client, limit int, window time.Duration) RateLimiter {
	serviceLog := log.With("service", "RedisRateLimiter")
	if limit <= 0 {
		limit = 15
	}
	if window <= 0 {
		window = time.Minute
	}
	return &redisRateLimiter{
		log:    serviceLog,
		client: client,
		limit:  limit,
		window: window,
	}
}

func (rl *redisRateLimiter) Allow(ctx context.Context, userID uuid.UUID) (bool, error) {
	key := fmt.Sprintf("aiquota:%s:%d", userID, time.Now().Unix()/int64(rl.window.Seconds()))
	count, err := rl.client.Incr(ctx, key).Result()
	if err != nil {
		rl.log.Warn("Rate limit check failed, allowing request", "error", err)
		return true, nil
	}
	if count == 1 {
		if expErr := rl.client.Expire(ctx, key, rl.window).Err(); expErr != nil {
			rl.log.Warn("Failed to set quota key expiry", "error", expErr)
		}
	}
	return count <= int64(rl.limit), nil
}

type noopRateLimiter struct{}

// NewNoopRateLimiter is the limiter used when Redis is not configured.
func NewNoopRateLimiter() RateLimiter {
	return noopRateLimiter{}
}

func (noopRateLimiter) Allow(ctx context.Context, userID uuid.UUID) (bool, error) {
	return true, nil
}
