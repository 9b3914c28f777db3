package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"herois-da-vida/backend/internal/access"
	"herois-da-vida/backend/internal/dto"
	"herois-da-vida/backend/internal/model"
	"herois-da-vida/backend/internal/repository"
	pkgerrors "herois-da-vida/backend/pkg/errors"
)

// ── 活动模块业务错误 ──

var (
	ErrCampaignNotFound   = errors.New("活动不存在")
	ErrAlreadyParticipant = errors.New("已参与该活动")
	ErrCampaignNotActive  = errors.New("活动未开放参与")
)

// CampaignService 捐献活动业务接口
type CampaignService interface {
	List(ctx context.Context) ([]dto.CampaignResponse, int, error)
	GetByID(ctx context.Context, id int64) (*dto.CampaignResponse, error)
	Create(ctx context.Context, req *dto.CreateCampaignRequest, viewer access.Identity) (*dto.CampaignResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateCampaignRequest, viewer access.Identity) (*dto.CampaignResponse, error)
	Delete(ctx context.Context, id int64, viewer access.Identity) error
	Join(ctx context.Context, id int64, viewer access.Identity) (*dto.CampaignResponse, error)
}

type campaignService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCampaignService 创建 CampaignService 实例
func NewCampaignService(repo *repository.Repository, logger *zap.Logger) CampaignService {
	return &campaignService{repo: repo, logger: logger}
}

// List 按创建顺序列出全部活动
func (s *campaignService) List(ctx context.Context) ([]dto.CampaignResponse, int, error) {
	campaigns, err := s.repo.Campaign.List(ctx)
	if err != nil {
		s.logger.Error("查询活动列表失败", zap.Error(err))
		return nil, 0, err
	}

	users, err := s.userIndex(ctx)
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.CampaignResponse, 0, len(campaigns))
	for i := range campaigns {
		result = append(result, ProjectCampaign(&campaigns[i], users))
	}
	return result, len(campaigns), nil
}

// GetByID 读取单个活动
func (s *campaignService) GetByID(ctx context.Context, id int64) (*dto.CampaignResponse, error) {
	campaign, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.project(ctx, campaign)
}

// Create 创建活动：状态为 active，进度为 0，创建者为当前调用者
func (s *campaignService) Create(ctx context.Context, req *dto.CreateCampaignRequest, viewer access.Identity) (*dto.CampaignResponse, error) {
	campaign := &model.Campaign{
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		TargetOrgan:  req.TargetOrgan,
		Goal:         req.Goal,
		Current:      0,
		Status:       model.CampaignActive,
		CreatedBy:    viewer.UserID,
		Participants: model.Int64Array{},
	}
	if err := s.repo.Campaign.Create(ctx, campaign); err != nil {
		s.logger.Error("创建活动失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("活动已创建", zap.Int64("campaign_id", campaign.ID), zap.Int64("created_by", viewer.UserID))
	return s.project(ctx, campaign)
}

// Update 部分更新活动，仅创建者或管理员
func (s *campaignService) Update(ctx context.Context, id int64, req *dto.UpdateCampaignRequest, viewer access.Identity) (*dto.CampaignResponse, error) {
	campaign, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanAccessOwned(viewer, campaign.CreatedBy) {
		return nil, ErrNoPermission
	}

	if req.Title != nil {
		campaign.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		campaign.Description = strings.TrimSpace(*req.Description)
	}
	if req.TargetOrgan != nil {
		campaign.TargetOrgan = *req.TargetOrgan
	}
	if req.Goal != nil {
		campaign.Goal = *req.Goal
	}
	if req.Status != nil {
		campaign.Status = *req.Status
	}

	if err := s.repo.Campaign.Update(ctx, campaign); err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, ErrCampaignNotFound
		}
		s.logger.Error("更新活动失败", zap.Int64("campaign_id", id), zap.Error(err))
		return nil, err
	}

	// 重新读取，带上并发加入的参与者
	updated, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.project(ctx, updated)
}

// Delete 删除活动
func (s *campaignService) Delete(ctx context.Context, id int64, viewer access.Identity) error {
	if err := s.repo.Campaign.Delete(ctx, id); err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return ErrCampaignNotFound
		}
		s.logger.Error("删除活动失败", zap.Int64("campaign_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("活动已删除", zap.Int64("campaign_id", id), zap.Int64("operator_id", viewer.UserID))
	return nil
}

// Join 当前用户参与活动，仅 active 状态可参与，重复参与返回 ErrAlreadyParticipant
func (s *campaignService) Join(ctx context.Context, id int64, viewer access.Identity) (*dto.CampaignResponse, error) {
	campaign, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign.Status != model.CampaignActive {
		return nil, ErrCampaignNotActive
	}
	if campaign.Participants.Contains(viewer.UserID) {
		return nil, ErrAlreadyParticipant
	}

	if err := s.repo.Campaign.AddParticipant(ctx, id, viewer.UserID); err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrDuplicate):
			return nil, ErrAlreadyParticipant
		case errors.Is(err, pkgerrors.ErrNotFound):
			return nil, ErrCampaignNotFound
		}
		s.logger.Error("参与活动失败", zap.Int64("campaign_id", id), zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// ── 内部方法 ──

func (s *campaignService) get(ctx context.Context, id int64) (*model.Campaign, error) {
	campaign, err := s.repo.Campaign.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, ErrCampaignNotFound
		}
		s.logger.Error("查询活动失败", zap.Int64("campaign_id", id), zap.Error(err))
		return nil, err
	}
	return campaign, nil
}

func (s *campaignService) project(ctx context.Context, c *model.Campaign) (*dto.CampaignResponse, error) {
	users := make(map[int64]*model.User, 1)
	creator, err := s.repo.User.GetByID(ctx, c.CreatedBy)
	switch {
	case err == nil:
		users[creator.ID] = creator
	case !errors.Is(err, pkgerrors.ErrNotFound):
		s.logger.Error("查询活动创建者失败", zap.Int64("user_id", c.CreatedBy), zap.Error(err))
		return nil, err
	}
	resp := ProjectCampaign(c, users)
	return &resp, nil
}

func (s *campaignService) userIndex(ctx context.Context) (map[int64]*model.User, error) {
	users, err := s.repo.User.List(ctx)
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, err
	}
	index := make(map[int64]*model.User, len(users))
	for i := range users {
		index[users[i].ID] = &users[i]
	}
	return index, nil
}
