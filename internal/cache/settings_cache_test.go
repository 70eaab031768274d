package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innoventory-ws/internal/model"
)

func newTestCache(t *testing.T) (SettingsCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb, err := NewRedis("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return NewSettingsCache(rdb, time.Minute), mr
}

func TestSettingsCacheMiss(t *testing.T) {
	c, _ := newTestCache(t)

	_, err := c.Get(context.Background())
	assert.True(t, errors.Is(err, ErrMiss))
}

func TestSettingsCacheRoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	want := &model.InventorySettings{ID: model.SettingsID, LowPercentage: 15, MediumPercentage: 60}
	require.NoError(t, c.Set(ctx, 0, want))

	got, err := c.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 15, got.LowPercentage)
	assert.Equal(t, 60, got.MediumPercentage)

	mr.FastForward(2 * time.Minute)
	_, err = c.Get(ctx)
	assert.True(t, errors.Is(err, ErrMiss), "entry expires after ttl")
}

func TestSettingsCacheRemembersAbsence(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 0, nil))

	got, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSettingsCacheInvalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 0, &model.InventorySettings{LowPercentage: 10, MediumPercentage: 40}))
	require.NoError(t, c.Invalidate(ctx))

	_, err := c.Get(ctx)
	assert.True(t, errors.Is(err, ErrMiss))
}

func TestSettingsCacheSkipsWriteAfterInvalidate(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	version, err := c.Version(ctx)
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx))

	require.NoError(t, c.Set(ctx, version, &model.InventorySettings{LowPercentage: 20, MediumPercentage: 50}))
	assert.False(t, mr.Exists(settingsKey))

	version, err = c.Version(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, version)
	require.NoError(t, c.Set(ctx, version, &model.InventorySettings{LowPercentage: 25, MediumPercentage: 50}))

	got, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25, got.LowPercentage)
}
