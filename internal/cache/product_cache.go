package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/product-service/internal/domain"
	"github.com/spec-kit/product-service/internal/persistence"
)

const productKeyPrefix = "product:"

// ProductCache keeps product lookups in Redis with a short TTL. All
// operations degrade to no-ops when Redis is unreachable so a cache outage
// never turns into a read failure.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProductCache builds a cache over the shared Redis connection.
func NewProductCache(r *persistence.Redis, ttlSeconds int) *ProductCache {
	if ttlSeconds <= 0 {
		ttlSeconds = 60
	}
	var client *redis.Client
	if r != nil {
		client = r.Client
	}
	return &ProductCache{client: client, ttl: time.Duration(ttlSeconds) * time.Second}
}

// Get returns the cached product, if present.
func (c *ProductCache) Get(ctx context.Context, id string) (*domain.Product, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, productKeyPrefix+id).Bytes()
	if err != nil {
		return nil, false
	}
	var product domain.Product
	if err := json.Unmarshal(raw, &product); err != nil {
		return nil, false
	}
	return &product, true
}

// Set stores the product for the configured TTL.
func (c *ProductCache) Set(ctx context.Context, product *domain.Product) {
	if c == nil || c.client == nil || product == nil {
		return
	}
	raw, err := json.Marshal(product)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, productKeyPrefix+product.ID, raw, c.ttl).Err()
}

// Invalidate drops the cached entry after a write.
func (c *ProductCache) Invalidate(ctx context.Context, id string) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, productKeyPrefix+id).Err()
}
