package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisKV stores values as Redis strings
type RedisKV struct {
	client     redis.Cmdable
	expiration time.Duration
	closer     func() error
}

// NewRedisKV wraps client. A zero expiration keeps keys forever.
func NewRedisKV(client redis.Cmdable, expiration time.Duration) *RedisKV {
	kv := &RedisKV{client: client, expiration: expiration}
	if c, ok := client.(interface{ Close() error }); ok {
		kv.closer = c.Close
	}
	return kv
}

func (r *RedisKV) GetItem(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return []byte(val), true, nil
}

func (r *RedisKV) SetItem(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, string(value), r.expiration).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Ping checks connectivity
func (r *RedisKV) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisKV) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer()
}
