package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisListingCache stores serialized listings in Redis with a TTL.
// Suitable for distributed deployments where instances share cached advice.
type RedisListingCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisListingCache creates a listing cache on an existing Redis client
func NewRedisListingCache(client *redis.Client, keyPrefix string) *RedisListingCache {
	if keyPrefix == "" {
		keyPrefix = "listing:"
	}
	return &RedisListingCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Get returns the cached value for the key; found=false on a miss
func (c *RedisListingCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Get(ctx, c.keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read cached listing: %w", err)
	}
	return value, true, nil
}

// Set stores the value under the key with the given TTL
func (c *RedisListingCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache listing: %w", err)
	}
	return nil
}

// Invalidate drops the cached value for the key
func (c *RedisListingCache) Invalidate(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached listing: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client
func (c *RedisListingCache) Close() error {
	return c.client.Close()
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// InMemoryListingCache is a process-local listing cache for single-instance
// deployments and tests. Expired entries are dropped lazily on read.
type InMemoryListingCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewInMemoryListingCache creates an empty in-memory listing cache
func NewInMemoryListingCache() *InMemoryListingCache {
	return &InMemoryListingCache{
		entries: make(map[string]memoryEntry),
	}
}

// Get returns the cached value for the key; found=false on a miss or expiry
func (c *InMemoryListingCache) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return "", false, nil
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return "", false, nil
	}
	return entry.value, true, nil
}

// Set stores the value under the key with the given TTL
func (c *InMemoryListingCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Invalidate drops the cached value for the key
func (c *InMemoryListingCache) Invalidate(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}
