package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSet(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	_, ok := store.Get(ctx, "missing")
	assert.False(t, ok)

	store.Set(ctx, "index_page:page=1", []byte("rendered"), time.Minute)
	b, ok := store.Get(ctx, "index_page:page=1")
	require.True(t, ok)
	assert.Equal(t, []byte("rendered"), b)
}

func TestMemoryExpiry(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	store.Set(ctx, "k", []byte("v"), 10*time.Millisecond)
	_, ok := store.Get(ctx, "k")
	assert.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok = store.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryZeroTTLNotStored(t *testing.T) {
	store := NewMemory()
	store.Set(context.Background(), "k", []byte("v"), 0)
	_, ok := store.Get(context.Background(), "k")
	assert.False(t, ok)
}

func TestMemoryClearPrefix(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	store.Set(ctx, "index_page:page=1", []byte("a"), time.Minute)
	store.Set(ctx, "index_page:page=2", []byte("b"), time.Minute)
	store.Set(ctx, "jwt:blacklist:tok", []byte("1"), time.Minute)

	store.Clear(ctx, "index_page:")

	_, ok := store.Get(ctx, "index_page:page=1")
	assert.False(t, ok)
	_, ok = store.Get(ctx, "index_page:page=2")
	assert.False(t, ok)
	_, ok = store.Get(ctx, "jwt:blacklist:tok")
	assert.True(t, ok, "other prefixes must survive a clear")
}

func newRedisStore(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisWithClient(client), mr
}

func TestRedisGetSet(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	_, ok := store.Get(ctx, "missing")
	assert.False(t, ok)

	store.Set(ctx, "index_page:page=1", []byte("rendered"), 20*time.Second)
	b, ok := store.Get(ctx, "index_page:page=1")
	require.True(t, ok)
	assert.Equal(t, []byte("rendered"), b)
}

func TestRedisWindowElapses(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	store.Set(ctx, "index_page:page=1", []byte("rendered"), 20*time.Second)

	mr.FastForward(19 * time.Second)
	_, ok := store.Get(ctx, "index_page:page=1")
	assert.True(t, ok)

	mr.FastForward(2 * time.Second)
	_, ok = store.Get(ctx, "index_page:page=1")
	assert.False(t, ok)
}

func TestRedisClearPrefix(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	store.Set(ctx, "index_page:page=1", []byte("a"), time.Minute)
	store.Set(ctx, "index_page:page=2", []byte("b"), time.Minute)
	store.Set(ctx, "other:key", []byte("c"), time.Minute)

	store.Clear(ctx, "index_page:")

	_, ok := store.Get(ctx, "index_page:page=1")
	assert.False(t, ok)
	_, ok = store.Get(ctx, "other:key")
	assert.True(t, ok)
}
