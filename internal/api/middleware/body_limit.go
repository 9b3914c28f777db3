package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"herois-da-vida/backend/pkg/response"
)

// BodyLimit 全局请求体大小限制中间件
// maxBytes: 允许的最大请求体字节数（默认 10MB）
// 声明长度超限时直接拒绝；未声明长度时由 MaxBytesReader 在读取阶段截断，
// Handler 绑定请求体时识别 *http.MaxBytesError 并返回 413
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, response.CodeBodyTooLarge, "请求体过大")
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
