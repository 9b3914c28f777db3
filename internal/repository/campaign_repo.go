package repository

import (
	"context"

	"gorm.io/gorm"

	"herois-da-vida/backend/internal/model"
	pkgerrors "herois-da-vida/backend/pkg/errors"
)

// CampaignRepository 捐献活动数据访问接口
type CampaignRepository interface {
	Create(ctx context.Context, campaign *model.Campaign) error
	GetByID(ctx context.Context, id int64) (*model.Campaign, error)
	List(ctx context.Context) ([]model.Campaign, error)
	// Update 覆盖活动字段，参与者只经由 AddParticipant 修改
	Update(ctx context.Context, campaign *model.Campaign) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	// AddParticipant 原子地追加参与者；已参与返回 pkgerrors.ErrDuplicate
	AddParticipant(ctx context.Context, campaignID, userID int64) error
}

// campaignRepo CampaignRepository 的 GORM 实现
type campaignRepo struct {
	db *gorm.DB
}

// NewCampaignRepo 创建 CampaignRepository 实例
func NewCampaignRepo(db *gorm.DB) CampaignRepository {
	return &campaignRepo{db: db}
}

func (r *campaignRepo) Create(ctx context.Context, campaign *model.Campaign) error {
	return translateError(r.db.WithContext(ctx).Create(campaign).Error)
}

func (r *campaignRepo) GetByID(ctx context.Context, id int64) (*model.Campaign, error) {
	var campaign model.Campaign
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&campaign).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &campaign, nil
}

func (r *campaignRepo) List(ctx context.Context) ([]model.Campaign, error) {
	var campaigns []model.Campaign
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&campaigns).Error
	return campaigns, translateError(err)
}

func (r *campaignRepo) Update(ctx context.Context, campaign *model.Campaign) error {
	res := r.db.WithContext(ctx).
		Model(&model.Campaign{}).
		Where("id = ?", campaign.ID).
		Select("*").Omit("id", "created_at", "created_by", "participants").
		Updates(campaign)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}

func (r *campaignRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Campaign{}, id)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}

func (r *campaignRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Campaign{}).Count(&total).Error
	return total, translateError(err)
}

func (r *campaignRepo) AddParticipant(ctx context.Context, campaignID, userID int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Campaign{}).
		Where("id = ? AND NOT (? = ANY(participants))", campaignID, userID).
		Update("participants", gorm.Expr("array_append(participants, ?::int8)", userID))
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	// 未更新：活动不存在或已参与
	if _, err := r.GetByID(ctx, campaignID); err != nil {
		return err
	}
	return pkgerrors.ErrDuplicate
}
