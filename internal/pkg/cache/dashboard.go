package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/qs3c/gym_go_server/internal/model/dto"
)

const dashboardKey = "gym:dashboard:stats"

// DashboardCache 管理后台统计数据的 Redis 缓存
type DashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDashboardCache(client *redis.Client, ttl time.Duration) *DashboardCache {
	return &DashboardCache{
		client: client,
		ttl:    ttl,
	}
}

// Get 读取缓存，未命中返回 (nil, false)
func (c *DashboardCache) Get(ctx context.Context) (*dto.DashboardStats, bool) {
	data, err := c.client.Get(ctx, dashboardKey).Bytes()
	if err != nil {
		return nil, false
	}

	var stats dto.DashboardStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, false
	}

	return &stats, true
}

// Set 写入缓存
func (c *DashboardCache) Set(ctx context.Context, stats *dto.DashboardStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, dashboardKey, data, c.ttl).Err()
}

// Invalidate 在会员或支付数据变更后让缓存失效
func (c *DashboardCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, dashboardKey).Err()
}
