package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"herois-da-vida/backend/pkg/ratelimit"
	"herois-da-vida/backend/pkg/response"
)

// KeyFunc 从请求中提取限流维度
type KeyFunc func(c *gin.Context) string

// KeyByIP 按客户端 IP 计数，全站共享额度
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByIPAndRoute 按客户端 IP + 路由计数
func KeyByIPAndRoute(c *gin.Context) string {
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	return c.ClientIP() + ":" + route
}

// RateLimit 按 keyFn 提取的维度限流
// limit: 窗口内允许的最大请求数
// window: 窗口时长
// scope 用于区分同一请求上叠加的多条规则（如 general / login）
// 限流器出错时放行并记录日志
func RateLimit(limiter ratelimit.Limiter, scope string, keyFn KeyFunc, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":" + keyFn(c)

		allowed, err := limiter.Allow(c.Request.Context(), key, limit, window)
		if err != nil {
			logger.Warn("限流检查失败，放行请求", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			response.TooManyRequests(c, "请求过于频繁，请稍后再试")
			return
		}

		c.Next()
	}
}
