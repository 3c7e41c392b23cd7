package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// VersionedCache stores JSON read models under keys that embed a namespace
// version. Bump increments the version, which orphans every key built before
// it; orphans expire through their TTL.
type VersionedCache struct {
	client     *redis.Client
	versionKey string
	ttl        time.Duration
}

// NewVersionedCache returns a cache whose version counter lives at
// "<namespace>:version". A nil client disables caching: FetchJSON always
// calls the loader and Bump is a no-op.
func NewVersionedCache(r *RedisClient, namespace string, ttl time.Duration) *VersionedCache {
	var client *redis.Client
	if r != nil {
		client = r.Client()
	}
	return &VersionedCache{client: client, versionKey: namespace + ":version", ttl: ttl}
}

// Version returns the current version, initialising it to 1 when missing.
func (c *VersionedCache) Version(ctx context.Context) (int64, error) {
	if c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, c.versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		ver, err = 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cache get version: %w", err)
	}
	if ver <= 0 {
		ver = 1
		if err := c.client.Set(ctx, c.versionKey, ver, 0).Err(); err != nil {
			return 0, fmt.Errorf("cache init version: %w", err)
		}
	}
	return ver, nil
}

// BuildKey joins parts with ':' and appends the current version.
func (c *VersionedCache) BuildKey(ctx context.Context, parts ...string) (string, error) {
	joined := strings.Join(parts, ":")
	if c.client == nil {
		return joined, nil
	}
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:v%d", joined, ver), nil
}

// FetchJSON decodes the value cached at key into dest. On a miss it calls
// loader, stores the JSON result with the cache TTL and decodes that instead.
func (c *VersionedCache) FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("cache: loader required")
	}
	if c.client != nil {
		payload, err := c.client.Get(ctx, key).Bytes()
		if err == nil {
			return json.Unmarshal(payload, dest)
		}
		if !errors.Is(err, redis.Nil) {
			return fmt.Errorf("cache get: %w", err)
		}
	}

	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	if c.client != nil {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			return fmt.Errorf("cache set: %w", err)
		}
	}
	return json.Unmarshal(raw, dest)
}

// Bump invalidates every key built so far.
func (c *VersionedCache) Bump(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	if err := c.client.Incr(ctx, c.versionKey).Err(); err != nil {
		return fmt.Errorf("cache bump: %w", err)
	}
	return nil
}
