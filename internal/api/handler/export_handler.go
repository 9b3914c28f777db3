package handler

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"herois-da-vida/backend/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
	debug     bool
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService, debug bool) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc, debug: debug}
}

// ExportUsers 导出用户列表（管理员）
// GET /api/users/export
func (h *ExportHandler) ExportUsers(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportUsers(c.Request.Context())
	if err != nil {
		internalError(c, err, h.debug)
		return
	}
	writeXLSX(c, buf, filename)
}

// ExportCampaigns 导出活动列表（管理员）
// GET /api/campaigns/export
func (h *ExportHandler) ExportCampaigns(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportCampaigns(c.Request.Context())
	if err != nil {
		internalError(c, err, h.debug)
		return
	}
	writeXLSX(c, buf, filename)
}

// writeXLSX 设置下载响应头并写入文件内容
func writeXLSX(c *gin.Context, buf *bytes.Buffer, filename string) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
