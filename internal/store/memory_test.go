package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetMissingKey(t *testing.T) {
	s := NewMemory()

	_, err := s.Get(context.Background(), "cart:u1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_SetThenGet(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "cart:u1", []byte(`[{"id":"p1"}]`)))

	got, err := s.Get(ctx, "cart:u1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":"p1"}]`), got)
}

func TestMemory_SetOverwrites(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "cart:u1", []byte("old")))
	require.NoError(t, s.Set(ctx, "cart:u1", []byte("new")))

	got, err := s.Get(ctx, "cart:u1")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)
}

func TestMemory_GetReturnsCopy(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "cart:u1", []byte("value")))

	got, err := s.Get(ctx, "cart:u1")
	require.NoError(t, err)
	got[0] = 'X'

	again, err := s.Get(ctx, "cart:u1")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), again)
}
