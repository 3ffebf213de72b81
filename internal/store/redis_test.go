package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a Redis store instance
func setupTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return NewRedis(client), mr, cleanup
}

func TestRedis_GetMissingKey(t *testing.T) {
	s, _, cleanup := setupTestRedis(t)
	defer cleanup()

	_, err := s.Get(context.Background(), "cart:u1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedis_SetThenGet(t *testing.T) {
	s, _, cleanup := setupTestRedis(t)
	defer cleanup()
	ctx := context.Background()

	value := []byte(`[{"id":"p1","name":"Widget","price":"9.99","image":"w.png","quantity":1}]`)
	require.NoError(t, s.Set(ctx, "cart:u1", value))

	got, err := s.Get(ctx, "cart:u1")
	require.NoError(t, err)
	assert.Equal(t, value, got)
}

func TestRedis_SetOverwrites(t *testing.T) {
	s, mr, cleanup := setupTestRedis(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "cart:u1", []byte("old")))
	require.NoError(t, s.Set(ctx, "cart:u1", []byte("[]")))

	got, err := s.Get(ctx, "cart:u1")
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), got)

	// An empty cart is a present value, not an absent key.
	assert.True(t, mr.Exists("cart:u1"))
}

func TestRedis_KeysDoNotExpire(t *testing.T) {
	s, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	require.NoError(t, s.Set(context.Background(), "cart:u1", []byte("[]")))
	assert.Equal(t, int64(0), int64(mr.TTL("cart:u1")))
}
