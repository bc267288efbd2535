package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ideal-gateway/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

const directoryKey = "ideal:directory"

// DirectoryCache implements ports.DirectoryCache using Redis.
type DirectoryCache struct {
	client *goredis.Client
	key    string
}

// NewDirectoryCache creates a new Redis-backed directory cache.
func NewDirectoryCache(client *goredis.Client) *DirectoryCache {
	return &DirectoryCache{
		client: client,
		key:    directoryKey,
	}
}

// Get returns the cached directory. Returns nil, nil if nothing is cached.
func (c *DirectoryCache) Get(ctx context.Context) (*domain.Directory, error) {
	val, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis directory get: %w", err)
	}

	var dir domain.Directory
	if err := json.Unmarshal(val, &dir); err != nil {
		return nil, fmt.Errorf("decoding cached directory: %w", err)
	}
	return &dir, nil
}

// Set stores the directory with TTL.
func (c *DirectoryCache) Set(ctx context.Context, dir *domain.Directory, ttl time.Duration) error {
	val, err := json.Marshal(dir)
	if err != nil {
		return fmt.Errorf("encoding directory: %w", err)
	}
	if err := c.client.Set(ctx, c.key, val, ttl).Err(); err != nil {
		return fmt.Errorf("redis directory set: %w", err)
	}
	return nil
}
