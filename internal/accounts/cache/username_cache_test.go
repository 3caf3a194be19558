package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) (*UsernameCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewUsernameCache(client, time.Hour), mr
}

func TestUsernameCacheRoundTrip(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	_, ok := c.Get(ctx, "dev")
	assert.False(t, ok, "miss before set")

	c.Set(ctx, "dev", "uid-1")

	uid, ok := c.Get(ctx, "dev")
	require.True(t, ok)
	assert.Equal(t, "uid-1", uid)
}

func TestUsernameCacheInvalidate(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	c.Set(ctx, "dev", "uid-1")
	c.Invalidate(ctx, "dev")

	_, ok := c.Get(ctx, "dev")
	assert.False(t, ok)
}

func TestUsernameCacheTTL(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	c.Set(ctx, "dev", "uid-1")
	mr.FastForward(2 * time.Hour)

	_, ok := c.Get(ctx, "dev")
	assert.False(t, ok, "entry expired")
}

func TestUsernameCacheNilSafe(t *testing.T) {
	var c *UsernameCache
	ctx := context.Background()

	_, ok := c.Get(ctx, "dev")
	assert.False(t, ok)
	c.Set(ctx, "dev", "uid-1")
	c.Invalidate(ctx, "dev")
}
