package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type exampleStruct struct {
	ID   int
	Name string
}

func TestInMemory_SetGet(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[string, exampleStruct]("test", DefaultExpiration, DefaultCleanupInterval)

	cache.Set(ctx, "ex:1", exampleStruct{ID: 1, Name: "apple"}, DefaultExpiration)

	got, ok := cache.Get(ctx, "ex:1")
	require.True(t, ok)
	require.Equal(t, "apple", got.Name)
	require.Equal(t, 1, cache.Len())
}

func TestInMemory_Miss(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval)
	got, ok := cache.Get(context.Background(), "missing")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemory_DeleteAndFlush(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(ctx, "a", "1", DefaultExpiration)
	cache.Set(ctx, "b", "2", DefaultExpiration)

	cache.Delete(ctx, "a")
	_, ok := cache.Get(ctx, "a")
	require.False(t, ok)

	cache.Flush(ctx)
	require.Equal(t, 0, cache.Len())
}

func TestInMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(ctx, "short", "lived", time.Millisecond)

	time.Sleep(5 * time.Millisecond)
	_, ok := cache.Get(ctx, "short")
	require.False(t, ok)
}

func TestReadThrough_ComputesOnce(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[string, int]("test", DefaultExpiration, DefaultCleanupInterval)
	calls := 0
	rt := NewReadThroughCache(cache, func(_ context.Context, n int) (int, error) {
		calls++
		return n * 2, nil
	}, time.Minute)

	v, err := rt.Get(ctx, "k", 21)
	require.NoError(t, err)
	require.Equal(t, 42, v)

	v, err = rt.Get(ctx, "k", 21)
	require.NoError(t, err)
	require.Equal(t, 42, v)
	require.Equal(t, 1, calls)
}

func TestReadThrough_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[string, int]("test", DefaultExpiration, DefaultCleanupInterval)
	boom := errors.New("boom")
	rt := NewReadThroughCache(cache, func(context.Context, int) (int, error) { return 0, boom }, time.Minute)

	_, err := rt.Get(ctx, "k", 1)
	require.ErrorIs(t, err, boom)
	require.Equal(t, 0, cache.Len())
}
