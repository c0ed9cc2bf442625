package cachestore_test

import (
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridwatch/goodsections/internal/cachestore"
	"github.com/gridwatch/goodsections/internal/goodsections"
	"github.com/gridwatch/goodsections/internal/redis"
	"github.com/gridwatch/goodsections/internal/testutil"
)

func newRedisStore(t *testing.T, ttl time.Duration) *cachestore.RedisStore {
	t.Helper()

	mr := miniredis.RunT(t)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	client := redis.NewClient(logger, redis.Config{
		Address:     mr.Addr(),
		DialTimeout: time.Second,
		PoolSize:    2,
	})

	ctx := testutil.NewTestContext(t)
	require.NoError(t, client.Start(ctx))
	t.Cleanup(func() { _ = client.Stop() })

	store := cachestore.NewRedisStore(logger, cachestore.Config{Backend: cachestore.BackendRedis, TTL: ttl}, client)
	require.NoError(t, store.Start(ctx))

	return store
}

func sampleRows() []goodsections.CacheRow {
	return []goodsections.CacheRow{
		{ChunkStart: 0, End: 10_000_000_000, SectionStart: 2_000_000_000, SectionEnd: goodsections.NotATime},
		{ChunkStart: 10_000_000_000, End: 20_000_000_000, SectionStart: goodsections.NotATime, SectionEnd: 15_000_000_000},
	}
}

func TestRedisStore_SaveLoadRoundTrip(t *testing.T) {
	store := newRedisStore(t, 0)
	ctx := testutil.NewTestContext(t)

	require.NoError(t, store.SaveRows(ctx, "meter-1", sampleRows()))

	loaded, err := store.LoadRows(ctx, "meter-1")
	require.NoError(t, err)
	assert.Equal(t, sampleRows(), loaded, "rows must round-trip in saved order")
}

func TestRedisStore_LoadMissingSeries(t *testing.T) {
	store := newRedisStore(t, 0)
	ctx := testutil.NewTestContext(t)

	loaded, err := store.LoadRows(ctx, "never-seen")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestRedisStore_SaveReplacesExistingRows(t *testing.T) {
	store := newRedisStore(t, 0)
	ctx := testutil.NewTestContext(t)

	require.NoError(t, store.SaveRows(ctx, "meter-1", sampleRows()))
	require.NoError(t, store.SaveRows(ctx, "meter-1", sampleRows()[:1]))

	loaded, err := store.LoadRows(ctx, "meter-1")
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestRedisStore_DeleteRows(t *testing.T) {
	store := newRedisStore(t, 0)
	ctx := testutil.NewTestContext(t)

	require.NoError(t, store.SaveRows(ctx, "meter-1", sampleRows()))
	require.NoError(t, store.DeleteRows(ctx, "meter-1"))

	loaded, err := store.LoadRows(ctx, "meter-1")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestRedisStore_SeriesAreIsolated(t *testing.T) {
	store := newRedisStore(t, 0)
	ctx := testutil.NewTestContext(t)

	require.NoError(t, store.SaveRows(ctx, "meter-1", sampleRows()))

	loaded, err := store.LoadRows(ctx, "meter-2")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
