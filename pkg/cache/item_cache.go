package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// ItemCacheTTL is the time-to-live for cached item read models.
	ItemCacheTTL = 24 * time.Hour

	itemCacheKeyPrefix = "market:item"
)

// CachedItem is the denormalized item read model stored in Redis.
// It carries the fields browse-style reads need; full history stays in the
// authoritative ledger.
type CachedItem struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Price    uint64 `json:"price"`
	Owner    string `json:"owner"`
	Listed   bool   `json:"listed"`
}

// ItemCache provides structured read/write operations for item cache entries.
// Key format: "market:item:{itemID}"
type ItemCache struct {
	client *RedisClient
}

// NewItemCache creates a new ItemCache backed by the given RedisClient.
func NewItemCache(r *RedisClient) *ItemCache {
	return &ItemCache{client: r}
}

// Get retrieves a cached item by ID.
// Returns redis.Nil error when the key does not exist or has expired.
func (c *ItemCache) Get(ctx context.Context, itemID uint64) (*CachedItem, error) {
	key := c.key(itemID)
	vals, err := c.client.Client().HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil // key not found
	}

	id, err := strconv.ParseUint(vals["id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cache parse id: %w", err)
	}
	price, err := strconv.ParseUint(vals["price"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cache parse price: %w", err)
	}
	listed, err := strconv.ParseBool(vals["listed"])
	if err != nil {
		return nil, fmt.Errorf("cache parse listed: %w", err)
	}

	return &CachedItem{
		ID:       id,
		Name:     vals["name"],
		Location: vals["location"],
		Price:    price,
		Owner:    vals["owner"],
		Listed:   listed,
	}, nil
}

// Set writes a cached item as a Redis hash with a 24-hour TTL.
// Uses a pipeline to set all fields and the TTL atomically.
func (c *ItemCache) Set(ctx context.Context, item *CachedItem) error {
	key := c.key(item.ID)
	pipe := c.client.Client().Pipeline()
	pipe.HSet(ctx, key,
		"id", strconv.FormatUint(item.ID, 10),
		"name", item.Name,
		"location", item.Location,
		"price", strconv.FormatUint(item.Price, 10),
		"owner", item.Owner,
		"listed", strconv.FormatBool(item.Listed),
	)
	pipe.Expire(ctx, key, ItemCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a cached item.
func (c *ItemCache) Delete(ctx context.Context, itemID uint64) error {
	if err := c.client.Client().Del(ctx, c.key(itemID)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// key builds the Redis key: "market:item:{itemID}"
func (c *ItemCache) key(itemID uint64) string {
	return fmt.Sprintf("%s:%d", itemCacheKeyPrefix, itemID)
}
