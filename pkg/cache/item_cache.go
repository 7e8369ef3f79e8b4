package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	// ItemCacheTTL is the time-to-live for cached items.
	ItemCacheTTL = 24 * time.Hour

	itemCacheKeyPrefix = "item"
)

// CachedItem is the denormalized item read model stored in Redis, including
// the on-hand stock shown by search and autocomplete.
// Stock entries are invalidated by the worker on every stock.adjusted event.
type CachedItem struct {
	ID        uuid.UUID       `json:"id"`
	OrgID     uuid.UUID       `json:"org_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Rate      decimal.Decimal `json:"rate"`
	Stock     decimal.Decimal `json:"stock"`
	CreatedAt time.Time       `json:"created_at"`
}

// ItemCache provides structured read/write operations for item cache entries.
// Keys are scoped by orgID to prevent cross-tenant data leakage.
// Key format: "item:{orgID}:{itemID}"
type ItemCache struct {
	client *RedisClient
}

// NewItemCache creates a new ItemCache backed by the given RedisClient.
func NewItemCache(r *RedisClient) *ItemCache {
	return &ItemCache{client: r}
}

// Get retrieves a cached item by org + item ID.
// Returns redis.Nil error when the key does not exist or has expired.
func (c *ItemCache) Get(ctx context.Context, orgID, itemID uuid.UUID) (*CachedItem, error) {
	vals, err := c.client.Client().HGetAll(ctx, c.key(orgID, itemID)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil
	}
	return decodeCachedItem(vals)
}

// Set writes a cached item as a Redis hash with a 24-hour TTL.
// Uses a pipeline to set all fields and the TTL atomically.
func (c *ItemCache) Set(ctx context.Context, item *CachedItem) error {
	key := c.key(item.OrgID, item.ID)
	pipe := c.client.Client().TxPipeline()
	pipe.HSet(ctx, key, encodeCachedItem(item))
	pipe.Expire(ctx, key, ItemCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes cached items. Deleting a missing key is not an error.
func (c *ItemCache) Delete(ctx context.Context, orgID uuid.UUID, itemIDs ...uuid.UUID) error {
	if len(itemIDs) == 0 {
		return nil
	}
	keys := make([]string, len(itemIDs))
	for i, id := range itemIDs {
		keys[i] = c.key(orgID, id)
	}
	if err := c.client.Client().Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// key builds the Redis key: "item:{orgID}:{itemID}"
func (c *ItemCache) key(orgID, itemID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:%s", itemCacheKeyPrefix, orgID, itemID)
}

func encodeCachedItem(item *CachedItem) map[string]any {
	return map[string]any{
		"id":         item.ID.String(),
		"org_id":     item.OrgID.String(),
		"sku":        item.SKU,
		"name":       item.Name,
		"rate":       item.Rate.String(),
		"stock":      item.Stock.String(),
		"created_at": item.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func decodeCachedItem(vals map[string]string) (*CachedItem, error) {
	id, err := uuid.Parse(vals["id"])
	if err != nil {
		return nil, fmt.Errorf("cache parse id: %w", err)
	}
	orgID, err := uuid.Parse(vals["org_id"])
	if err != nil {
		return nil, fmt.Errorf("cache parse org_id: %w", err)
	}
	rate, err := decimal.NewFromString(vals["rate"])
	if err != nil {
		return nil, fmt.Errorf("cache parse rate: %w", err)
	}
	stock, err := decimal.NewFromString(vals["stock"])
	if err != nil {
		return nil, fmt.Errorf("cache parse stock: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, vals["created_at"])
	if err != nil {
		return nil, fmt.Errorf("cache parse created_at: %w", err)
	}

	return &CachedItem{
		ID:        id,
		OrgID:     orgID,
		SKU:       vals["sku"],
		Name:      vals["name"],
		Rate:      rate,
		Stock:     stock,
		CreatedAt: createdAt,
	}, nil
}
