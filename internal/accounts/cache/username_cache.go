package cache

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const usernameKeyPrefix = "devlog:username:" // devlog:username:{username} -> uid

// UsernameCache is a read-through Redis cache in front of the username index.
// Usernames are never reassigned once claimed, so stale positive hits cannot
// point at the wrong account; the TTL only bounds memory.
type UsernameCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewUsernameCache creates a cache with the given entry TTL.
func NewUsernameCache(client *redis.Client, ttl time.Duration) *UsernameCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &UsernameCache{client: client, ttl: ttl}
}

// Get returns the cached uid for username, if present. Cache errors are
// logged and treated as misses so Redis never blocks a lookup.
func (c *UsernameCache) Get(ctx context.Context, username string) (string, bool) {
	if c == nil || c.client == nil {
		return "", false
	}
	uid, err := c.client.Get(ctx, usernameKeyPrefix+username).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("username cache get %q: %v", username, err)
		}
		return "", false
	}
	return uid, true
}

// Set records the username -> uid mapping.
func (c *UsernameCache) Set(ctx context.Context, username, uid string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Set(ctx, usernameKeyPrefix+username, uid, c.ttl).Err(); err != nil {
		log.Printf("username cache set %q: %v", username, err)
	}
}

// Invalidate drops the cached mapping, if any. The sweeper calls this after
// repairing an orphaned index entry.
func (c *UsernameCache) Invalidate(ctx context.Context, username string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, usernameKeyPrefix+username).Err(); err != nil {
		log.Printf("username cache del %q: %v", username, err)
	}
}
