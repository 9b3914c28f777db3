package handler

import "herois-da-vida/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Health   *HealthHandler
	Auth     *AuthHandler
	User     *UserHandler
	Campaign *CampaignHandler
	Export   *ExportHandler
}

// NewHandler 创建 Handler 聚合
// debug 为 true 时 500 响应附带错误详情
func NewHandler(svc *service.Service, version string, debug bool) *Handler {
	return &Handler{
		Health:   NewHealthHandler(version),
		Auth:     NewAuthHandler(svc.Auth, debug),
		User:     NewUserHandler(svc.User, debug),
		Campaign: NewCampaignHandler(svc.Campaign, debug),
		Export:   NewExportHandler(svc.Export, debug),
	}
}
