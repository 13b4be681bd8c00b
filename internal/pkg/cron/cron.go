package cron

import (
	"context"
	"log"
	"time"

	"github.com/qs3c/gym_go_server/internal/service"
)

type Service struct {
	sweepService *service.SweepService
	stopChan     chan struct{}
}

func NewService(sweepService *service.SweepService) *Service {
	return &Service{
		sweepService: sweepService,
		stopChan:     make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runDailySweep()
	log.Println("Cron service started (membership expiry sweep)")
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// runDailySweep 每日 UTC 零点执行会籍到期扫描
func (s *Service) runDailySweep() {
	now := time.Now().UTC()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	timer := time.NewTimer(nextMidnight.Sub(now))

	for {
		select {
		case <-s.stopChan:
			timer.Stop()
			return
		case <-timer.C:
			if _, err := s.sweepService.SweepExpired(context.Background()); err != nil {
				log.Printf("Membership sweep failed: %v", err)
			}
			timer.Reset(24 * time.Hour)
		}
	}
}
