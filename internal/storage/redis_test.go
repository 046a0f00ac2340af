package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisStore instance
func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	store := NewRedisStore(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return store, mr, cleanup
}

func TestRedisGet_Success(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	mr.Set(storageKey("cartItems"), `[{"_id":"b1","quantity":2}]`)

	data, err := store.Get(ctx, "cartItems")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"_id":"b1","quantity":2}]`, string(data))
}

func TestRedisGet_Missing(t *testing.T) {
	store, _, cleanup := setupTestRedis(t)
	defer cleanup()

	_, err := store.Get(context.Background(), "cartItems")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisSet_RoundTrip(t *testing.T) {
	store, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "cartItems", []byte(`[]`)))

	data, err := store.Get(ctx, "cartItems")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}

func TestRedisSet_NoExpiry(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	require.NoError(t, store.Set(context.Background(), "cartItems", []byte(`[]`)))
	assert.Zero(t, mr.TTL(storageKey("cartItems")))
}

func TestRedisDelete(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	mr.Set(storageKey("cartItems"), `[]`)

	require.NoError(t, store.Delete(ctx, "cartItems"))

	_, err := store.Get(ctx, "cartItems")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisGet_ServerDown(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	mr.Close()

	_, err := store.Get(context.Background(), "cartItems")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
