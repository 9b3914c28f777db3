package service

import (
	"go.uber.org/zap"

	"herois-da-vida/backend/config"
	"herois-da-vida/backend/internal/repository"
	"herois-da-vida/backend/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth     AuthService
	User     UserService
	Campaign CampaignService
	Export   ExportService
	Seeder   *Seeder
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	hasher PasswordHasher,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:     NewAuthService(cfg, repo, jwtMgr, hasher, logger),
		User:     NewUserService(repo, hasher, logger),
		Campaign: NewCampaignService(repo, logger),
		Export:   NewExportService(repo, logger),
		Seeder:   NewSeeder(&cfg.Seed, repo, hasher, logger),
	}
}
