package main

import (
	"fmt"
	"log"
	"time"

	"github.com/qs3c/gym_go_server/config"
	"github.com/qs3c/gym_go_server/internal/api"
	"github.com/qs3c/gym_go_server/internal/api/handler"
	"github.com/qs3c/gym_go_server/internal/database"
	"github.com/qs3c/gym_go_server/internal/pkg/cache"
	"github.com/qs3c/gym_go_server/internal/pkg/cron"
	"github.com/qs3c/gym_go_server/internal/pkg/oss"
	"github.com/qs3c/gym_go_server/internal/pkg/razorpay"
	"github.com/qs3c/gym_go_server/internal/repository"
	"github.com/qs3c/gym_go_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 OSS（未配置则跳过，照片上传不可用）
	var ossClient *oss.Client
	if cfg.OSS.Endpoint != "" {
		ossClient, err = oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Fatalf("Failed to init OSS client: %v", err)
		}
		log.Println("OSS client ready")
	}

	// 初始化支付网关与缓存
	gateway := razorpay.NewClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	cacheTTL := time.Duration(cfg.Membership.DashboardCacheTTL) * time.Second
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	statsCache := cache.NewDashboardCache(rdb, cacheTTL)

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// 初始化 Service
	authService := service.NewAuthService(userRepo, cfg)
	memberService := service.NewMemberService(userRepo, ossClient, statsCache, cfg)
	membershipService := service.NewMembershipService(db, userRepo, paymentRepo, gateway, statsCache, cfg)
	dashboardService := service.NewDashboardService(userRepo, paymentRepo, statsCache, cfg)
	sweepService := service.NewSweepService(userRepo, statsCache)

	// 引导管理员
	if err := authService.EnsureAdmin(); err != nil {
		log.Fatalf("Failed to ensure bootstrap admin: %v", err)
	}

	// 启动会籍到期扫描
	cronService := cron.NewService(sweepService)
	cronService.Start()
	defer cronService.Stop()

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService)
	memberHandler := handler.NewMemberHandler(memberService, membershipService)
	paymentHandler := handler.NewPaymentHandler(membershipService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		memberHandler,
		paymentHandler,
		dashboardHandler,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
