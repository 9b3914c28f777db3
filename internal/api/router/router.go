package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"herois-da-vida/backend/config"
	"herois-da-vida/backend/internal/api/handler"
	"herois-da-vida/backend/internal/api/middleware"
	"herois-da-vida/backend/internal/model"
	"herois-da-vida/backend/pkg/ratelimit"
	"herois-da-vida/backend/pkg/response"
)

// Endpoints 对外公开的接口列表，未匹配路由时返回给调用方
var Endpoints = []string{
	"GET /api/health",
	"POST /api/auth/login",
	"POST /api/auth/register",
	"GET /api/auth/me",
	"GET /api/users",
	"POST /api/users",
	"GET /api/users/export",
	"GET /api/users/:id",
	"PUT /api/users/:id",
	"DELETE /api/users/:id",
	"GET /api/campaigns",
	"POST /api/campaigns",
	"GET /api/campaigns/export",
	"GET /api/campaigns/:id",
	"PUT /api/campaigns/:id",
	"DELETE /api/campaigns/:id",
	"POST /api/campaigns/:id/join",
}

// Setup 初始化并返回 Gin 路由引擎
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	auth middleware.Authenticator,
	limiter ratelimit.Limiter,
	logger *zap.Logger,
) *gin.Engine {
	handler.RegisterValidators()

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(middleware.Recovery(logger, cfg.Server.Debug))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimitBytes))

	general := cfg.RateLimit.General
	r.Use(middleware.RateLimit(limiter, "general", middleware.KeyByIP, general.Limit, general.Window, logger))

	login := cfg.RateLimit.Login
	loginLimit := middleware.RateLimit(limiter, "login", middleware.KeyByIPAndRoute, login.Limit, login.Window, logger)
	adminOnly := middleware.RoleAuth(model.RoleAdmin)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health.Check)

		// 认证模块（无需认证）
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", loginLimit, h.Auth.Login)
			authGroup.POST("/register", h.Auth.Register)
		}

		// 需要认证的路由
		authorized := api.Group("")
		authorized.Use(middleware.JWTAuth(auth))
		{
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("", h.User.ListUsers)
				users.POST("", adminOnly, h.User.CreateUser)
				users.GET("/export", adminOnly, h.Export.ExportUsers)
				users.GET("/:id", middleware.OwnershipOrAdmin("id"), h.User.GetUser)
				users.PUT("/:id", middleware.OwnershipOrAdmin("id"), h.User.UpdateUser)
				users.DELETE("/:id", adminOnly, h.User.DeleteUser)
			}

			// 捐献活动模块
			campaigns := authorized.Group("/campaigns")
			{
				campaigns.GET("", h.Campaign.ListCampaigns)
				campaigns.POST("", adminOnly, h.Campaign.CreateCampaign)
				campaigns.GET("/export", adminOnly, h.Export.ExportCampaigns)
				campaigns.GET("/:id", h.Campaign.GetCampaign)
				campaigns.PUT("/:id", h.Campaign.UpdateCampaign) // 创建者或管理员（Service 层鉴权）
				campaigns.DELETE("/:id", adminOnly, h.Campaign.DeleteCampaign)
				campaigns.POST("/:id/join", h.Campaign.JoinCampaign)
			}
		}
	}

	// ── 未匹配路由 ──
	r.NoRoute(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"success":            false,
			"code":               response.CodeRouteNotFound,
			"error":              "接口不存在",
			"availableEndpoints": Endpoints,
		})
	})

	return r
}
