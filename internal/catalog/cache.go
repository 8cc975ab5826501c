package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-shop-api.git/internal/redisx"
)

// CachedStore is a read-through cache for product-by-id lookups. Redis
// failures degrade to the underlying store, never to an error.
type CachedStore struct {
	Store
	RDB *redis.Client
	TTL time.Duration
}

func NewCachedStore(s Store, rdb *redis.Client) *CachedStore {
	return &CachedStore{Store: s, RDB: rdb, TTL: redisx.TTLProduct}
}

func (c *CachedStore) GetProduct(ctx context.Context, id string) (*Product, error) {
	key := fmt.Sprintf(redisx.KeyProduct, id)

	data, err := c.RDB.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var p Product
		if uerr := json.Unmarshal(data, &p); uerr == nil {
			return &p, nil
		}
		log.Printf("bad cached product %s, falling through to db", id)
	case errors.Is(err, redis.Nil):
	default:
		log.Printf("redis get %s: %v (continuing with db)", key, err)
	}

	p, err := c.Store.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if b, merr := json.Marshal(p); merr == nil {
		if serr := c.RDB.Set(ctx, key, b, c.TTL).Err(); serr != nil {
			log.Printf("redis set %s: %v", key, serr)
		}
	}
	return p, nil
}

func (c *CachedStore) UpdateProduct(ctx context.Context, p *Product) error {
	c.Invalidate(ctx, p.ID)
	return c.Store.UpdateProduct(ctx, p)
}

func (c *CachedStore) DeleteProduct(ctx context.Context, id string) error {
	c.Invalidate(ctx, id)
	return c.Store.DeleteProduct(ctx, id)
}

func (c *CachedStore) Invalidate(ctx context.Context, ids ...string) {
	for _, id := range ids {
		key := fmt.Sprintf(redisx.KeyProduct, id)
		if err := c.RDB.Del(ctx, key).Err(); err != nil {
			log.Printf("redis del %s: %v", key, err)
		}
	}
}
