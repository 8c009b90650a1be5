package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cacheVersionKey = "catalog:version"
	cacheKeyPrefix  = "catalog:snapshot"
)

// Cache stores the fetched collection in Redis under a versioned key.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Version returns the current cache version, initialising when missing.
func (c *Cache) Version(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.Set(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	if ver <= 0 {
		ver = 1
		if err := c.client.Set(ctx, cacheVersionKey, ver, 0).Err(); err != nil {
			return 0, err
		}
	}
	return ver, nil
}

func (c *Cache) key(ctx context.Context) (string, error) {
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d", cacheKeyPrefix, ver), nil
}

// ErrCacheUnavailable wraps Redis failures that Fetch worked around by calling
// the loader directly.
var ErrCacheUnavailable = errors.New("catalog: cache unavailable")

// Fetch loads the cached collection or populates it using the loader. The
// boolean result reports a cache hit. When Redis fails the loader still runs
// and its products are returned together with an ErrCacheUnavailable error.
func (c *Cache) Fetch(ctx context.Context, loader func(context.Context) ([]Product, error)) ([]Product, bool, error) {
	if loader == nil {
		return nil, false, errors.New("catalog: cache loader required")
	}
	if c == nil || c.client == nil {
		products, err := loader(ctx)
		return products, false, err
	}
	products, readErr := c.read(ctx)
	if readErr == nil && products != nil {
		return products, true, nil
	}
	products, err := loader(ctx)
	if err != nil {
		return nil, false, err
	}
	if readErr != nil {
		return products, false, fmt.Errorf("%w: read: %v", ErrCacheUnavailable, readErr)
	}
	if err := c.Store(ctx, products); err != nil {
		return products, false, fmt.Errorf("%w: store: %v", ErrCacheUnavailable, err)
	}
	return products, false, nil
}

// read returns nil products without error on a miss or a corrupt entry.
func (c *Cache) read(ctx context.Context) ([]Product, error) {
	key, err := c.key(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var products []Product
	if err := json.Unmarshal(payload, &products); err != nil {
		return nil, nil
	}
	return products, nil
}

// Store writes the collection under the current version.
func (c *Cache) Store(ctx context.Context, products []Product) error {
	if c == nil || c.client == nil {
		return nil
	}
	key, err := c.key(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

// Bump invalidates the cache by incrementing the version.
func (c *Cache) Bump(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, cacheVersionKey).Err()
}
