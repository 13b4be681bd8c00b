package service

import (
	"context"
	"log"
	"time"

	"github.com/qs3c/gym_go_server/config"
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/cache"
	"github.com/qs3c/gym_go_server/internal/repository"
)

type DashboardService struct {
	userRepo    *repository.UserRepository
	paymentRepo *repository.PaymentRepository
	statsCache  *cache.DashboardCache
	cfg         *config.Config
}

func NewDashboardService(
	userRepo *repository.UserRepository,
	paymentRepo *repository.PaymentRepository,
	statsCache *cache.DashboardCache,
	cfg *config.Config,
) *DashboardService {
	return &DashboardService{
		userRepo:    userRepo,
		paymentRepo: paymentRepo,
		statsCache:  statsCache,
		cfg:         cfg,
	}
}

// Stats 管理后台统计数据，优先读缓存
func (s *DashboardService) Stats(ctx context.Context) (*dto.DashboardStats, error) {
	if s.statsCache != nil {
		if stats, ok := s.statsCache.Get(ctx); ok {
			return stats, nil
		}
	}

	total, err := s.userRepo.CountMembers()
	if err != nil {
		return nil, err
	}
	active, err := s.userRepo.CountActiveMembers()
	if err != nil {
		return nil, err
	}

	expiringDays := s.cfg.Membership.ExpiringSoonDays
	if expiringDays <= 0 {
		expiringDays = defaultExpiringSoonDays
	}
	expiring, err := s.userRepo.CountExpiringBefore(time.Now().AddDate(0, 0, expiringDays))
	if err != nil {
		return nil, err
	}

	revenue, err := s.paymentRepo.SumCompleted()
	if err != nil {
		return nil, err
	}

	stats := &dto.DashboardStats{
		TotalMembers:  total,
		ActiveMembers: active,
		ExpiringSoon:  expiring,
		TotalRevenue:  revenue,
	}

	if s.statsCache != nil {
		if err := s.statsCache.Set(ctx, stats); err != nil {
			log.Printf("failed to cache dashboard stats: %v", err)
		}
	}

	return stats, nil
}
