package redis

import (
	"context"
	"fmt"
	"time"

	"ideal-gateway/internal/core/ports"

	goredis "github.com/redis/go-redis/v9"
)

// RateLimitStore implements ports.RateLimiter with Redis counters.
type RateLimitStore struct {
	client *goredis.Client
	prefix string
}

// NewRateLimitStore creates a new Redis-backed rate limit store.
func NewRateLimitStore(client *goredis.Client) *RateLimitStore {
	return &RateLimitStore{
		client: client,
		prefix: "ratelimit:",
	}
}

// Allow counts a request against key in the current fixed window.
// Windows are time / window, so every key resets at the same boundary.
func (s *RateLimitStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*ports.RateLimitResult, error) {
	if window < time.Second {
		return nil, fmt.Errorf("rate limit window %s is below one second", window)
	}
	seconds := int64(window / time.Second)
	windowID := time.Now().Unix() / seconds
	redisKey := fmt.Sprintf("%s%s:%d", s.prefix, key, windowID)

	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis rate limit incr: %w", err)
	}

	// first hit opens the window
	if count == 1 {
		if err := s.client.Expire(ctx, redisKey, window+time.Second).Err(); err != nil {
			return nil, fmt.Errorf("redis rate limit expire: %w", err)
		}
	}

	remaining := int64(limit) - count
	if remaining < 0 {
		remaining = 0
	}

	return &ports.RateLimitResult{
		Allowed:   count <= int64(limit),
		Remaining: int(remaining),
		ResetAt:   time.Unix((windowID+1)*seconds, 0),
	}, nil
}
