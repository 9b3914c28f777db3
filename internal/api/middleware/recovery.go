package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"herois-da-vida/backend/pkg/response"
)

// Recovery panic 恢复中间件，以统一错误结构返回 500
func Recovery(logger *zap.Logger, debug bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("请求处理发生 panic",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", GetRequestID(c)),
			zap.Stack("stack"),
		)
		response.InternalError(c, fmt.Errorf("panic: %v", recovered), debug)
	})
}
