package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a short-lived redis read cache for catalog payloads. Display only:
// stock validation always bypasses it and asks the backend directly.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a cache helper. A nil client disables caching.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func productKey(id int64) string  { return fmt.Sprintf("catalog:product:%d", id) }
func productsKey() string         { return "catalog:products" }
func categoriesKey() string       { return "catalog:categories" }
func categoryKey(id int64) string { return fmt.Sprintf("catalog:category:%d:products", id) }

// ProductKeys returns the cache keys invalidated by a write to one product.
func ProductKeys(id, categoryID int64) []string {
	keys := []string{productKey(id), productsKey()}
	if categoryID != 0 {
		keys = append(keys, categoryKey(categoryID))
	}
	return keys
}

// ListKeys returns the listing keys invalidated when a product is added.
func ListKeys(categoryID int64) []string {
	keys := []string{productsKey()}
	if categoryID != 0 {
		keys = append(keys, categoryKey(categoryID))
	}
	return keys
}

// CategoryListKey returns the categories listing cache key.
func CategoryListKey() string { return categoriesKey() }

// GetJSON unmarshals a cached payload into dst. It reports whether the key existed.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	if c == nil || c.client == nil || key == "" {
		return false, nil
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON serialises v as JSON and stores it with the configured TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, v any) error {
	if c == nil || c.client == nil || key == "" {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// Invalidate drops the listed keys; used after admin writes.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil || len(keys) == 0 {
		return
	}
	_ = c.client.Del(ctx, keys...).Err()
}
