package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"parsifly/pkg/config"
)

// KV is a string-keyed byte store
type KV interface {
	// GetItem returns the stored value; found is false when the key is absent
	GetItem(ctx context.Context, key string) (value []byte, found bool, err error)
	SetItem(ctx context.Context, key string, value []byte) error
	Close() error
}

// Open builds the backend selected by cfg.Backend
func Open(cfg config.CacheConfig) (KV, error) {
	switch cfg.Backend {
	case config.BackendMemory, "":
		return NewMemoryKV(), nil
	case config.BackendFile:
		return NewFileKV(cfg.Directory)
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		// entries outlive their TTL a little so a stale read is reported as
		// stale rather than silently missing
		return NewRedisKV(client, 2*cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %q", cfg.Backend)
	}
}
