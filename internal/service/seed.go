package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"herois-da-vida/backend/config"
	"herois-da-vida/backend/internal/model"
	"herois-da-vida/backend/internal/repository"
)

// Seeder 演示数据初始化
// 仅在用户存储为空时写入，已有数据时不做任何修改
type Seeder struct {
	cfg    *config.SeedConfig
	repo   *repository.Repository
	hasher PasswordHasher
	logger *zap.Logger
}

// NewSeeder 创建 Seeder
func NewSeeder(cfg *config.SeedConfig, repo *repository.Repository, hasher PasswordHasher, logger *zap.Logger) *Seeder {
	return &Seeder{cfg: cfg, repo: repo, hasher: hasher, logger: logger}
}

// Seed 写入管理员、测试用户与两个演示活动
// 返回是否实际写入了数据
func (s *Seeder) Seed(ctx context.Context) (bool, error) {
	if !s.cfg.Enabled {
		return false, nil
	}

	count, err := s.repo.User.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("统计用户数失败: %w", err)
	}
	if count > 0 {
		s.logger.Info("已有用户数据，跳过演示数据初始化", zap.Int64("users", count))
		return false, nil
	}

	if s.cfg.AdminPassword == config.DefaultSeedAdminPassword {
		s.logger.Warn("演示管理员仍使用默认密码，请通过 seed.admin_password 修改",
			zap.String("email", NormalizeEmail(s.cfg.AdminEmail)))
	}

	adminHash, err := s.hasher.Hash(s.cfg.AdminPassword)
	if err != nil {
		return false, fmt.Errorf("管理员密码哈希失败: %w", err)
	}
	userHash, err := s.hasher.Hash(s.cfg.UserPassword)
	if err != nil {
		return false, fmt.Errorf("测试用户密码哈希失败: %w", err)
	}

	admin := &model.User{
		Name:          "Administrador",
		Email:         NormalizeEmail(s.cfg.AdminEmail),
		PasswordHash:  adminHash,
		Role:          model.RoleAdmin,
		IsDonor:       true,
		DonatedOrgans: model.StringArray{model.OrganHeart, model.OrganLiver, model.OrganKidney},
		CreatedAt:     date(2024, time.January, 1),
	}
	user := &model.User{
		Name:          "Usuário Teste",
		Email:         NormalizeEmail(s.cfg.UserEmail),
		PasswordHash:  userHash,
		Role:          model.RoleUser,
		DonatedOrgans: model.StringArray{},
		CreatedAt:     date(2024, time.January, 15),
	}
	for _, u := range []*model.User{admin, user} {
		if err := s.repo.User.Create(ctx, u); err != nil {
			return false, fmt.Errorf("写入演示用户失败: %w", err)
		}
	}

	campaigns := []*model.Campaign{
		{
			Title:        "Campanha Coração Solidário",
			Description:  "Campanha para conscientização sobre doação de coração",
			TargetOrgan:  model.OrganHeart,
			Goal:         1000,
			Current:      245,
			Status:       model.CampaignActive,
			CreatedBy:    admin.ID,
			CreatedAt:    date(2024, time.February, 1),
			Participants: model.Int64Array{admin.ID, user.ID},
		},
		{
			Title:        "Doe Vida - Rins",
			Description:  "Campanha focada na doação de rins",
			TargetOrgan:  model.OrganKidney,
			Goal:         500,
			Current:      123,
			Status:       model.CampaignActive,
			CreatedBy:    admin.ID,
			CreatedAt:    date(2024, time.February, 15),
			Participants: model.Int64Array{admin.ID},
		},
	}
	for _, c := range campaigns {
		if err := s.repo.Campaign.Create(ctx, c); err != nil {
			return false, fmt.Errorf("写入演示活动失败: %w", err)
		}
	}

	s.logger.Info("演示数据初始化完成",
		zap.Int("users", 2),
		zap.Int("campaigns", len(campaigns)),
	)
	return true, nil
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
