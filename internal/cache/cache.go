package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/neexbeast/travelrec/internal/destination"
)

const defaultTTL = time.Hour

// Cache wraps a Redis client and provides typed get/set/delete for raw
// dataset documents. Normalized records are never cached: IDs are assigned
// per load.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a Cache with a 1-hour TTL.
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client, ttl: defaultTTL}
}

// NewCacheWithTTL constructs a Cache with a custom TTL. Non-positive values
// fall back to the default.
func NewCacheWithTTL(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// key returns the Redis key for the given dataset source.
func key(source string) string {
	return "dataset:" + strings.ToLower(strings.TrimSpace(source))
}

// Get retrieves a dataset document from cache.
// Returns nil, nil on a cache miss (not an error).
func (c *Cache) Get(ctx context.Context, source string) (*destination.Document, error) {
	val, err := c.client.Get(ctx, key(source)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get for dataset %s: %w", source, err)
	}

	var doc destination.Document
	if err := json.Unmarshal([]byte(val), &doc); err != nil {
		return nil, fmt.Errorf("unmarshaling cached dataset %s: %w", source, err)
	}

	return &doc, nil
}

// Set stores a dataset document in cache with the configured TTL.
func (c *Cache) Set(ctx context.Context, source string, doc *destination.Document) error {
	if doc == nil {
		return nil
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling dataset %s: %w", source, err)
	}

	if err := c.client.Set(ctx, key(source), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set for dataset %s: %w", source, err)
	}

	return nil
}

// Delete removes the cached document for the given source.
func (c *Cache) Delete(ctx context.Context, source string) error {
	if err := c.client.Del(ctx, key(source)).Err(); err != nil {
		return fmt.Errorf("cache delete for dataset %s: %w", source, err)
	}
	return nil
}
