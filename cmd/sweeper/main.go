package main

import (
	"context"
	"log"
	"time"

	"github.com/qs3c/gym_go_server/config"
	"github.com/qs3c/gym_go_server/internal/database"
	"github.com/qs3c/gym_go_server/internal/pkg/cache"
	"github.com/qs3c/gym_go_server/internal/repository"
	"github.com/qs3c/gym_go_server/internal/service"
)

// 独立的一次性到期扫描入口，供容器外 cron 调度使用
func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}

	statsCache := cache.NewDashboardCache(rdb, 5*time.Minute)
	userRepo := repository.NewUserRepository(db)
	sweepService := service.NewSweepService(userRepo, statsCache)

	rows, err := sweepService.SweepExpired(context.Background())
	if err != nil {
		log.Fatalf("Sweep failed: %v", err)
	}

	log.Printf("Sweep finished: %d member(s) marked inactive", rows)
}
