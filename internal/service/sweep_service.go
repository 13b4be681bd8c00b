package service

import (
	"context"
	"log"
	"time"

	"github.com/qs3c/gym_go_server/internal/pkg/cache"
	"github.com/qs3c/gym_go_server/internal/repository"
)

// SweepService 将会籍已到期的活跃会员批量置为 inactive
type SweepService struct {
	userRepo   *repository.UserRepository
	statsCache *cache.DashboardCache
}

func NewSweepService(userRepo *repository.UserRepository, statsCache *cache.DashboardCache) *SweepService {
	return &SweepService{
		userRepo:   userRepo,
		statsCache: statsCache,
	}
}

// SweepExpired 执行一次到期扫描，返回处理行数
func (s *SweepService) SweepExpired(ctx context.Context) (int64, error) {
	rows, err := s.userRepo.MarkExpiredInactive(time.Now())
	if err != nil {
		return 0, err
	}

	if rows > 0 {
		log.Printf("Membership sweep: %d member(s) marked inactive", rows)
		if s.statsCache != nil {
			if err := s.statsCache.Invalidate(ctx); err != nil {
				log.Printf("failed to invalidate dashboard cache: %v", err)
			}
		}
	}

	return rows, nil
}
