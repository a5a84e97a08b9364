package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const listCacheKey = "catalog:products:v1"

// Cache holds the rendered product list in Redis between writes.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache returns nil, which disables caching, when client is nil or ttl is not positive.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &Cache{client: client, ttl: ttl}
}

// Products returns the cached list and whether it was present.
func (c *Cache) Products(ctx context.Context) ([]Product, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	data, err := c.client.Get(ctx, listCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read product cache: %w", err)
	}
	var items []Product
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false, fmt.Errorf("decode product cache: %w", err)
	}
	return items, true, nil
}

// StoreProducts replaces the cached list.
func (c *Cache) StoreProducts(ctx context.Context, items []Product) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, listCacheKey, data, c.ttl).Err()
}

// Invalidate drops the cached list so the next read goes to the database.
func (c *Cache) Invalidate(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Del(ctx, listCacheKey).Err()
}
