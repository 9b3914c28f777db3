package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler 健康检查
type HealthHandler struct {
	version string
	now     func() time.Time
}

// NewHealthHandler 创建 HealthHandler
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version, now: time.Now}
}

// Check 健康检查
// GET /api/health
func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "API Heróis da Vida funcionando!",
		"timestamp": h.now().UTC().Format(time.RFC3339),
		"version":   h.version,
	})
}
