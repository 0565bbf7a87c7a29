package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// BlockhashCache implements ports.BlockhashCache using Redis. A single key
// holds the most recent blockhash; the TTL bounds its staleness.
type BlockhashCache struct {
	client *goredis.Client
	key    string
}

// NewBlockhashCache creates a new Redis-backed blockhash cache.
func NewBlockhashCache(client *goredis.Client) *BlockhashCache {
	return &BlockhashCache{
		client: client,
		key:    "solana:blockhash",
	}
}

// Get retrieves the cached blockhash. Returns "" without error when the key
// is absent or expired.
func (c *BlockhashCache) Get(ctx context.Context) (string, error) {
	val, err := c.client.Get(ctx, c.key).Result()
	if err != nil {
		if err == goredis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("redis blockhash get: %w", err)
	}
	return val, nil
}

// Set stores a blockhash with the given TTL.
func (c *BlockhashCache) Set(ctx context.Context, blockhash string, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key, blockhash, ttl).Err(); err != nil {
		return fmt.Errorf("redis blockhash set: %w", err)
	}
	return nil
}
