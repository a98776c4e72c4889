package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/storefront/internal/transport"
)

// Client is the subset of *redis.Client the cache uses.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// ProductCache keeps assembled product details keyed by product id.
type ProductCache struct {
	rdb Client
	ttl time.Duration
}

func NewProductCache(rdb Client, ttl time.Duration) *ProductCache {
	return &ProductCache{rdb: rdb, ttl: ttl}
}

func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", addr, err)
	}
	return rdb, nil
}

func productKey(id string) string { return "product:detail:" + id }

// Get reports a miss as (nil, false, nil).
func (c *ProductCache) Get(ctx context.Context, id string) (*transport.ProductDetail, bool, error) {
	raw, err := c.rdb.Get(ctx, productKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var d transport.ProductDetail
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, false, fmt.Errorf("redis: decode %s: %w", id, err)
	}
	return &d, true, nil
}

func (c *ProductCache) Set(ctx context.Context, d *transport.ProductDetail) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, productKey(d.ID), raw, c.ttl).Err()
}

func (c *ProductCache) Invalidate(ctx context.Context, id string) error {
	return c.rdb.Del(ctx, productKey(id)).Err()
}
