package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisReportCache(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	c, err := NewRedisReportCache(ctx, mr.Addr(), "report:run-1:", time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	_, ok, err := c.Get(ctx, "packages@10:30")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "packages@10:30", []byte(`{"ok":true}`)))
	assert.True(t, mr.Exists("report:run-1:packages@10:30"))

	b, ok, err := c.Get(ctx, "packages@10:30")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"ok":true}`, string(b))

	mr.FastForward(2 * time.Minute)
	_, ok, err = c.Get(ctx, "packages@10:30")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisReportCacheURLAndErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	c, err := NewRedisReportCache(ctx, "redis://"+mr.Addr()+"/0", "", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultReportTTL, c.ttl)
	c.Close()

	_, err = NewRedisReportCache(ctx, " ", "", 0)
	assert.Error(t, err)

	addr := mr.Addr()
	mr.Close()
	_, err = NewRedisReportCache(ctx, addr, "", 0)
	assert.Error(t, err)
}
