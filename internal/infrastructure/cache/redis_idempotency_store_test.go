package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/seller-catalog-api/internal/domain/entity"
	"github.com/jhoicas/seller-catalog-api/internal/infrastructure/cache"
	"github.com/jhoicas/seller-catalog-api/pkg/config"
)

func newStore(t *testing.T) (*cache.RedisIdempotencyStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedisIdempotencyStore(client, "test:"), mr
}

func TestRedisIdempotencyStore_Lifecycle(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	ok, err := store.Reserve(ctx, "k1", "fp1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Reserve(ctx, "k1", "fp1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "la segunda reserva pierde")

	resp, pending, err := store.Lookup(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, pending)
	require.NotNil(t, resp)
	assert.Equal(t, "fp1", resp.Fingerprint, "la reserva recuerda el cuerpo original")

	saved := &entity.IdempotentResponse{Fingerprint: "fp1", Status: 201, ContentType: "application/json", Body: []byte(`{"id":"p1"}`)}
	require.NoError(t, store.Complete(ctx, "k1", saved, time.Hour))

	resp, pending, err = store.Lookup(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, pending)
	assert.Equal(t, saved, resp)
	assert.True(t, mr.Exists("test:k1"))

	mr.FastForward(2 * time.Hour)
	resp, pending, err = store.Lookup(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.False(t, pending, "expirada")
}

func TestRedisIdempotencyStore_Release(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	ok, err := store.Reserve(ctx, "k2", "fp2", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, store.Release(ctx, "k2"))

	ok, err = store.Reserve(ctx, "k2", "fp2", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisIdempotencyStore_Unavailable(t *testing.T) {
	store, mr := newStore(t)
	mr.Close()

	_, err := store.Reserve(context.Background(), "k3", "fp3", time.Minute)
	assert.Error(t, err)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := cache.NewRedisClient(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	require.NoError(t, client.Close())

	_, err = cache.NewRedisClient(context.Background(), config.RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
