package redisad

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"hotel_admin/internal/adapters/observability"
	"hotel_admin/internal/domain"
)

// Store keeps JSON values in redis under a key prefix.
type Store struct {
	c      *redis.Client
	prefix string
}

var _ domain.KV = (*Store)(nil)

func New(addr, pass string, db int) *Store {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}))
}

func NewWithClient(c *redis.Client) *Store {
	return &Store{c: c, prefix: "hoteladmin:"}
}

func (r *Store) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func (r *Store) Close() error { return r.c.Close() }

func (r *Store) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, err := r.c.Get(ctx, r.prefix+key).Bytes()
	if err == redis.Nil {
		observability.ObserveSession("redis", "miss")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	observability.ObserveSession("redis", "hit")
	return true, json.Unmarshal(v, dst)
}

func (r *Store) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	observability.ObserveSession("redis", "set")
	return r.c.Set(ctx, r.prefix+key, b, ttl).Err()
}

func (r *Store) Del(ctx context.Context, key string) error {
	observability.ObserveSession("redis", "del")
	return r.c.Del(ctx, r.prefix+key).Err()
}
