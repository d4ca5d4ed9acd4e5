package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parsifly/pkg/config"
)

func TestMemoryKV(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	_, found, err := kv.GetItem(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	value := []byte("hello")
	require.NoError(t, kv.SetItem(ctx, "k", value))
	value[0] = 'j' // caller's slice must not alias the stored copy

	got, found, err := kv.GetItem(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "hello", string(got))
	assert.Equal(t, 1, kv.Len())
}

func TestRedisKVGet(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	kv := NewRedisKV(db, time.Hour)

	mock.ExpectGet("parsifly_instagram_jane").SetVal(`{"data":{}}`)
	mock.ExpectGet("parsifly_instagram_nobody").RedisNil()
	mock.ExpectGet("parsifly_instagram_broken").SetErr(errors.New("connection refused"))

	value, found, err := kv.GetItem(ctx, "parsifly_instagram_jane")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"data":{}}`, string(value))

	_, found, err = kv.GetItem(ctx, "parsifly_instagram_nobody")
	require.NoError(t, err)
	assert.False(t, found)

	_, _, err = kv.GetItem(ctx, "parsifly_instagram_broken")
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisKVSet(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	kv := NewRedisKV(db, time.Hour)

	mock.ExpectSet("parsifly_youtube_jane", "payload", time.Hour).SetVal("OK")
	mock.ExpectSet("parsifly_youtube_down", "payload", time.Hour).SetErr(errors.New("READONLY"))

	require.NoError(t, kv.SetItem(ctx, "parsifly_youtube_jane", []byte("payload")))
	assert.Error(t, kv.SetItem(ctx, "parsifly_youtube_down", []byte("payload")))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisKVPing(t *testing.T) {
	db, mock := redismock.NewClientMock()
	kv := NewRedisKV(db, 0)

	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, kv.Ping(context.Background()))
	assert.NoError(t, kv.Close())
}

func TestOpen(t *testing.T) {
	cfg := config.DefaultConfig().Cache

	kv, err := Open(cfg)
	require.NoError(t, err)
	assert.IsType(t, &MemoryKV{}, kv)

	cfg.Backend = config.BackendFile
	cfg.Directory = t.TempDir()
	kv, err = Open(cfg)
	require.NoError(t, err)
	assert.IsType(t, &FileKV{}, kv)

	cfg.Backend = config.BackendRedis
	kv, err = Open(cfg)
	require.NoError(t, err)
	assert.IsType(t, &RedisKV{}, kv)
	assert.NoError(t, kv.Close())

	cfg.Backend = "etcd"
	_, err = Open(cfg)
	assert.Error(t, err)
}
