package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	require.NoError(t, c.Migrate(context.Background()))
	return c
}

func TestCachePutGet(t *testing.T) {
	c := openTestCache(t, time.Hour)
	ctx := context.Background()

	_, ok := c.Get(ctx, Key("nearby", "10.000000", "20.000000", "500"))
	assert.False(t, ok, "empty cache misses")

	key := Key("nearby", "10.000000", "20.000000", "500")
	require.NoError(t, c.Put(ctx, key, []byte(`[{"place_id":"p1"}]`)))

	payload, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.JSONEq(t, `[{"place_id":"p1"}]`, string(payload))
}

func TestCachePutReplaces(t *testing.T) {
	c := openTestCache(t, time.Hour)
	ctx := context.Background()

	key := Key("details", "place-1")
	require.NoError(t, c.Put(ctx, key, []byte(`{"v":1}`)))
	require.NoError(t, c.Put(ctx, key, []byte(`{"v":2}`)))

	payload, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.JSONEq(t, `{"v":2}`, string(payload))

	stats, err := c.CollectStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Entries)
}

func TestCacheTTLExpiry(t *testing.T) {
	c := openTestCache(t, time.Millisecond)
	ctx := context.Background()

	key := Key("text", "cafe rio", "10.000000", "20.000000", "2000")
	require.NoError(t, c.Put(ctx, key, []byte(`[]`)))

	time.Sleep(20 * time.Millisecond)
	_, ok := c.Get(ctx, key)
	assert.False(t, ok, "entry past its ttl is a miss")
}

func TestCacheZeroTTLNeverExpires(t *testing.T) {
	c := openTestCache(t, 0)
	ctx := context.Background()

	key := Key("details", "place-2")
	require.NoError(t, c.Put(ctx, key, []byte(`{}`)))

	time.Sleep(5 * time.Millisecond)
	_, ok := c.Get(ctx, key)
	assert.True(t, ok)
}

func TestCacheKeyNormalization(t *testing.T) {
	assert.Equal(t, Key("Nearby", " 10.5 ", "20"), Key("nearby", "10.5", "20"))
	assert.NotEqual(t, Key("nearby", "10.5", "20"), Key("nearby", "10.5", "21"))
	assert.NotEqual(t, Key("nearby", "10.5"), Key("text", "10.5"))
	assert.Len(t, Key("a"), 64)
}

func TestCacheStatsAndPurge(t *testing.T) {
	c := openTestCache(t, time.Hour)
	ctx := context.Background()

	stats, err := c.CollectStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Entries)

	require.NoError(t, c.Put(ctx, Key("a"), []byte(`1`)))
	require.NoError(t, c.Put(ctx, Key("b"), []byte(`2`)))

	stats, err = c.CollectStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Entries)
	assert.False(t, stats.Oldest.IsZero())
	assert.False(t, stats.Newest.Before(stats.Oldest))

	n, err := c.Purge(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, ok := c.Get(ctx, Key("a"))
	assert.False(t, ok)
}
