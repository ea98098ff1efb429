package offer

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/logging"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and a backend pointing at it
func setupTestRedis(t *testing.T) (*RedisBackend, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisBackend(client), mr
}

func TestRedisBackend_SetGetWithoutTTL(t *testing.T) {
	backend, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, backend.Set(ctx, Key("o1"), []byte(`{"id":"o1"}`)))

	stored, err := mr.Get(Key("o1"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"o1"}`, stored)
	assert.Zero(t, mr.TTL(Key("o1")))

	got, err := backend.Get(ctx, Key("o1"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"o1"}`, string(got))
}

func TestRedisBackend_GetMiss(t *testing.T) {
	backend, _ := setupTestRedis(t)

	_, err := backend.Get(context.Background(), Key("nope"))
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisBackend_KeysScansPrefix(t *testing.T) {
	backend, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(Key("a"), "{}"))
	require.NoError(t, mr.Set(Key("b"), "{}"))
	require.NoError(t, mr.Set("cart:1", "{}"))

	keys, err := backend.Keys(ctx, KeyPrefix)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{Key("a"), Key("b")}, keys)
}

func TestRedisBackend_DeleteNonExistentKey(t *testing.T) {
	backend, _ := setupTestRedis(t)

	assert.NoError(t, backend.Delete(context.Background(), Key("nope")))
}

func TestCache_OverRedis(t *testing.T) {
	backend, mr := setupTestRedis(t)
	ctx := context.Background()
	c := NewCache(backend, logging.Discard())

	c.Save(ctx, "o1", map[string]any{"id": "o1"})
	assert.True(t, mr.Exists(Key("o1")))

	// a second instance sharing the same redis sees the write
	other := NewCache(backend, logging.Discard())
	raw, ok := other.Get(ctx, "o1")
	require.True(t, ok)
	assert.JSONEq(t, `{"id":"o1"}`, string(raw))

	assert.Equal(t, 1, c.Clear(ctx))
	assert.False(t, mr.Exists(Key("o1")))
}

func TestCache_RedisDownFallsBackToMemory(t *testing.T) {
	backend, mr := setupTestRedis(t)
	ctx := context.Background()
	c := NewCache(backend, logging.Discard())

	mr.Close()

	c.Save(ctx, "o1", map[string]any{"id": "o1"})
	raw, ok := c.Get(ctx, "o1")
	require.True(t, ok)
	assert.JSONEq(t, `{"id":"o1"}`, string(raw))
}
