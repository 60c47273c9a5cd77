package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ProductCacheTTL bounds staleness for entries the worker fails to refresh.
const ProductCacheTTL = 24 * time.Hour

// CachedProduct is the flattened Redis-hash representation of a catalog entry.
type CachedProduct struct {
	ID        int64
	Name      string
	Price     int64
	Owner     uuid.UUID
	Purchased bool
	CreatedAt time.Time
}

// ProductCache stores catalog entries as Redis hashes under "product:<id>".
// Catalog entries are immutable except for the purchase flip, so the API
// serves reads from here and the worker re-warms entries from ledger events.
type ProductCache struct {
	client *redis.Client
}

// NewProductCache returns a ProductCache backed by the given Redis client.
func NewProductCache(rc *RedisClient) *ProductCache {
	return &ProductCache{client: rc.Client()}
}

func productKey(id int64) string {
	return "product:" + strconv.FormatInt(id, 10)
}

// Get fetches a cached product. Returns redis.Nil when the key is absent.
func (c *ProductCache) Get(ctx context.Context, id int64) (*CachedProduct, error) {
	fields, err := c.client.HGetAll(ctx, productKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get product %d: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, redis.Nil
	}

	price, err := strconv.ParseInt(fields["price"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cache product %d: bad price: %w", id, err)
	}
	owner, err := uuid.Parse(fields["owner"])
	if err != nil {
		return nil, fmt.Errorf("cache product %d: bad owner: %w", id, err)
	}
	purchased, err := strconv.ParseBool(fields["purchased"])
	if err != nil {
		return nil, fmt.Errorf("cache product %d: bad purchased flag: %w", id, err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		return nil, fmt.Errorf("cache product %d: bad created_at: %w", id, err)
	}

	return &CachedProduct{
		ID:        id,
		Name:      fields["name"],
		Price:     price,
		Owner:     owner,
		Purchased: purchased,
		CreatedAt: createdAt,
	}, nil
}

// Set writes the product hash and refreshes its TTL in one pipeline round trip.
func (c *ProductCache) Set(ctx context.Context, p *CachedProduct) error {
	key := productKey(p.ID)
	pipe := c.client.Pipeline()
	pipe.HSet(ctx, key,
		"name", p.Name,
		"price", strconv.FormatInt(p.Price, 10),
		"owner", p.Owner.String(),
		"purchased", strconv.FormatBool(p.Purchased),
		"created_at", p.CreatedAt.Format(time.RFC3339Nano),
	)
	pipe.Expire(ctx, key, ProductCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set product %d: %w", p.ID, err)
	}
	return nil
}

// Delete drops a product from the cache. Missing keys are not an error.
func (c *ProductCache) Delete(ctx context.Context, id int64) error {
	if err := c.client.Del(ctx, productKey(id)).Err(); err != nil {
		return fmt.Errorf("cache delete product %d: %w", id, err)
	}
	return nil
}
