package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestMemoryCacheMissIsNilNil(t *testing.T) {
	c := NewMemoryCache()

	got, err := c.Get(context.Background(), "absent")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, c.Delete(ctx, "k"))

	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryCacheSetAfterClose(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, c.Close())

	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)

	// a write racing shutdown must not panic
	assert.NoError(t, c.Set(ctx, "k", []byte("v2"), 0))
}

func TestParseValkeyURL(t *testing.T) {
	addr, password, err := parseValkeyURL("valkey://:hunter2@cache.local:6379")
	require.NoError(t, err)
	assert.Equal(t, "cache.local:6379", addr)
	assert.Equal(t, "hunter2", password)

	_, _, err = parseValkeyURL("valkey://")
	assert.Error(t, err)
}

func TestCacheErrorUnwrap(t *testing.T) {
	inner := assert.AnError
	err := &CacheError{Operation: "get", Key: "k", Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "get")
}
