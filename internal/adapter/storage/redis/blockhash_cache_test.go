package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockhashCache_SetAndGet(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewBlockhashCache(client)
	ctx := context.Background()

	// Get before set => empty
	hash, err := cache.Get(ctx)
	assert.NoError(t, err)
	assert.Empty(t, hash)

	err = cache.Set(ctx, "9pHkRLV2WKpfBBEPzs9CLiXltK4mSDRVfbdzQbfhjEYc", 30*time.Second)
	require.NoError(t, err)

	hash, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "9pHkRLV2WKpfBBEPzs9CLiXltK4mSDRVfbdzQbfhjEYc", hash)
}

func TestBlockhashCache_TTLExpiry(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewBlockhashCache(client)
	ctx := context.Background()

	err := cache.Set(ctx, "someblockhash", 30*time.Second)
	require.NoError(t, err)

	// Fast-forward time in miniredis
	s.FastForward(31 * time.Second)

	hash, err := cache.Get(ctx)
	assert.NoError(t, err)
	assert.Empty(t, hash, "expired blockhash should read as absent")
}

func TestBlockhashCache_Overwrite(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewBlockhashCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "hashOld", 30*time.Second))
	require.NoError(t, cache.Set(ctx, "hashNew", 30*time.Second))

	hash, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hashNew", hash)
}
