package ports

//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks

import (
	"context"
	"time"

	"ideal-gateway/internal/core/domain"
)

// DirectoryCache keeps the last issuer directory fetched from the acquirer.
type DirectoryCache interface {
	// Get returns the cached directory, or nil without error on a miss.
	Get(ctx context.Context) (*domain.Directory, error)
	Set(ctx context.Context, dir *domain.Directory, ttl time.Duration) error
}

// RateLimiter counts requests per identifier in fixed windows.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*RateLimitResult, error)
}

// RateLimitResult is the outcome of a single Allow call.
type RateLimitResult struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}
