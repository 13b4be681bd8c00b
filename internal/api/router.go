package api

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/gym_go_server/config"
	"github.com/qs3c/gym_go_server/internal/api/handler"
	"github.com/qs3c/gym_go_server/internal/api/middleware"
)

type Router struct {
	authHandler      *handler.AuthHandler
	memberHandler    *handler.MemberHandler
	paymentHandler   *handler.PaymentHandler
	dashboardHandler *handler.DashboardHandler
	cfg              *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	memberHandler *handler.MemberHandler,
	paymentHandler *handler.PaymentHandler,
	dashboardHandler *handler.DashboardHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:      authHandler,
		memberHandler:    memberHandler,
		paymentHandler:   paymentHandler,
		dashboardHandler: dashboardHandler,
		cfg:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/login", r.authHandler.Login)
		}

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			authenticated.PUT("/auth/password", r.authHandler.ChangePassword)

			// 会员 - 本人或管理员（细粒度校验在 service 层）
			members := authenticated.Group("/members")
			{
				members.GET("/:id", r.memberHandler.Get)
				members.GET("/:id/status", r.memberHandler.GetStatus)
				members.POST("/:id/photo", r.memberHandler.UploadPhoto)
			}

			// 会员 - 仅管理员
			membersAdmin := authenticated.Group("/members")
			membersAdmin.Use(middleware.RequireAdmin())
			{
				membersAdmin.GET("", r.memberHandler.List)
				membersAdmin.POST("", r.memberHandler.Create)
				membersAdmin.PUT("/:id", r.memberHandler.Update)
				membersAdmin.DELETE("/:id", r.memberHandler.Delete)
			}

			// 支付
			payments := authenticated.Group("/payments")
			{
				payments.POST("/create-order", r.paymentHandler.CreateOrder)
				payments.POST("/verify", r.paymentHandler.Verify)
				payments.GET("/user/:userId", r.paymentHandler.ListByUser)
			}

			paymentsAdmin := authenticated.Group("/payments")
			paymentsAdmin.Use(middleware.RequireAdmin())
			{
				paymentsAdmin.GET("", r.paymentHandler.ListAll)
			}

			// 管理后台
			authenticated.GET("/dashboard", middleware.RequireAdmin(), r.dashboardHandler.Stats)
		}
	}

	return engine
}
