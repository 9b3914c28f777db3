package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 每个请求输出一行结构化日志
// 按路由模板（/api/users/:id）归类，不记录查询串、请求体与 Authorization 头
// 健康检查降为 Debug，限流拒绝记为 Warn
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.String("path", c.Request.URL.Path),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
			zap.Int("bytes", c.Writer.Size()),
			zap.String("request_id", GetRequestID(c)),
		}
		if uid, ok := c.Get(userIDKey); ok {
			fields = append(fields, zap.Any("user_id", uid))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()))
		}

		level, msg := logLevel(route, status)
		if ce := logger.Check(level, msg); ce != nil {
			ce.Write(fields...)
		}
	}
}

func logLevel(route string, status int) (zapcore.Level, string) {
	switch {
	case status >= 500:
		return zapcore.ErrorLevel, "请求处理失败"
	case status == 429:
		return zapcore.WarnLevel, "请求被限流"
	case status >= 400:
		return zapcore.WarnLevel, "客户端错误"
	case route == "/api/health":
		return zapcore.DebugLevel, "健康检查"
	default:
		return zapcore.InfoLevel, "请求完成"
	}
}
