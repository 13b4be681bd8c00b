package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/gym_go_server/internal/model/dto"
)

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return client, cleanup
}

func TestDashboardCache_SetGet(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	c := NewDashboardCache(client, time.Minute)
	ctx := context.Background()

	stats := &dto.DashboardStats{
		TotalMembers:  42,
		ActiveMembers: 30,
		ExpiringSoon:  5,
		TotalRevenue:  12345.50,
	}

	require.NoError(t, c.Set(ctx, stats))

	got, ok := c.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, stats, got)
}

func TestDashboardCache_GetMiss(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	c := NewDashboardCache(client, time.Minute)

	got, ok := c.Get(context.Background())
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestDashboardCache_Invalidate(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	c := NewDashboardCache(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, &dto.DashboardStats{TotalMembers: 1}))
	require.NoError(t, c.Invalidate(ctx))

	_, ok := c.Get(ctx)
	assert.False(t, ok)
}

func TestDashboardCache_CorruptedEntry(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	c := NewDashboardCache(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, dashboardKey, "not-json", time.Minute).Err())

	_, ok := c.Get(ctx)
	assert.False(t, ok)
}
