// Package cache keeps decoded activities in Redis so repeated process
// requests for the same upload skip the download and decode.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/adrian9211/private-coach/fit"
)

const keyPrefix = "fitproc:activity:"

// envelope is the stored value. msgpack keeps the pointer-heavy
// activity far smaller than JSON.
type envelope struct {
	Activity *fit.Activity `msgpack:"activity"`
	CachedAt time.Time     `msgpack:"cachedAt"`
}

// Cache wraps a Redis client with a fixed TTL. The zero value is a
// disabled cache whose methods are no-ops.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis at addr. An empty addr returns a disabled
// cache rather than an error so the service runs without Redis.
func New(addr, password string, db int, ttl time.Duration) *Cache {
	if addr == "" {
		return &Cache{}
	}
	return &Cache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl: ttl,
	}
}

// Enabled reports whether a Redis client is attached.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get returns the cached activity for id, or nil on a miss. A disabled
// cache always misses.
func (c *Cache) Get(ctx context.Context, id string) (*fit.Activity, error) {
	if !c.Enabled() {
		return nil, nil
	}

	raw, err := c.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", id, err)
	}

	var env envelope
	if err := msgpack.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("cache decode %s: %w", id, err)
	}
	return env.Activity, nil
}

// Set stores the activity under id with the configured TTL.
func (c *Cache) Set(ctx context.Context, id string, act *fit.Activity) error {
	if !c.Enabled() {
		return nil
	}

	raw, err := msgpack.Marshal(envelope{Activity: act, CachedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", id, err)
	}
	if err := c.client.Set(ctx, keyPrefix+id, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", id, err)
	}
	return nil
}

// Ping verifies the Redis connection. Disabled caches report healthy.
func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
