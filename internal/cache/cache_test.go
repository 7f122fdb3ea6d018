package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAside_FillsOnMissAndServesFromCache(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fills := 0
	var got string
	fill := func() error {
		fills++
		got = "10"
		return nil
	}

	require.NoError(t, Aside(ctx, SettingKey("posts_per_page"), &got, SettingTTL, fill))
	assert.Equal(t, 1, fills)
	assert.Equal(t, "10", got)

	var again string
	require.NoError(t, Aside(ctx, SettingKey("posts_per_page"), &again, SettingTTL, fill))
	assert.Equal(t, 1, fills, "second read must come from cache")
	assert.Equal(t, "10", again)
}

func TestAside_FillErrorPropagates(t *testing.T) {
	setupMiniredis(t)

	fillErr := errors.New("db down")
	var dest string
	err := Aside(context.Background(), SettingKey("site_title"), &dest, time.Minute, func() error {
		return fillErr
	})
	assert.ErrorIs(t, err, fillErr)
}

func TestInvalidate_ForcesRefill(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fills := 0
	value := "a"
	fill := func() error {
		fills++
		return nil
	}

	require.NoError(t, Aside(ctx, SettingKey("site_title"), &value, time.Minute, fill))
	Invalidate(ctx, SettingKey("site_title"))
	require.NoError(t, Aside(ctx, SettingKey("site_title"), &value, time.Minute, fill))
	assert.Equal(t, 2, fills)
}

func TestAside_NoClientJustFills(t *testing.T) {
	SetClient(nil)

	fills := 0
	var v int
	require.NoError(t, Aside(context.Background(), "k", &v, time.Minute, func() error {
		fills++
		v = 5
		return nil
	}))
	assert.Equal(t, 1, fills)
	assert.Equal(t, 5, v)
}
