package repository

import (
	"errors"

	"gorm.io/gorm"

	pkgerrors "herois-da-vida/backend/pkg/errors"
)

// Repository 所有 Repository 的聚合入口
// 业务层只依赖接口，内存实现与 PostgreSQL 实现可互换
type Repository struct {
	User     UserRepository
	Campaign CampaignRepository
}

// NewRepository 创建基于 GORM 的 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:     NewUserRepo(db),
		Campaign: NewCampaignRepo(db),
	}
}

// NewMemoryRepository 创建进程内存 Repository 聚合（数据随进程生命周期存在）
func NewMemoryRepository() *Repository {
	return &Repository{
		User:     NewMemoryUserRepo(),
		Campaign: NewMemoryCampaignRepo(),
	}
}

// translateError 将 GORM 错误转换为存储层通用错误
// 需要 gorm.Config.TranslateError = true 才能得到 ErrDuplicatedKey
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return pkgerrors.ErrDuplicate
	default:
		return err
	}
}
