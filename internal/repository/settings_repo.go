package repository

import (
	"context"

	"gorm.io/gorm"

	"sizechart_dev_v1/internal/model"
)

// ==================== 接口定义 ====================

// SettingsRepository 店铺配置仓储接口
type SettingsRepository interface {
	GetByShop(ctx context.Context, shops []string) (*model.ShopSettings, error)
	Save(ctx context.Context, settings *model.ShopSettings) error
	DeleteByShop(ctx context.Context, tx *gorm.DB, shops []string) error
}

// ==================== 仓储实现 ====================

type settingsRepo struct {
	db *gorm.DB
}

// NewSettingsRepository 创建店铺配置仓储
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepo{db: db}
}

func (r *settingsRepo) GetByShop(ctx context.Context, shops []string) (*model.ShopSettings, error) {
	var settings model.ShopSettings
	err := r.db.WithContext(ctx).
		Where("shop IN ?", shops).
		First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepo) Save(ctx context.Context, settings *model.ShopSettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}

func (r *settingsRepo) DeleteByShop(ctx context.Context, tx *gorm.DB, shops []string) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).
		Unscoped().
		Where("shop IN ?", shops).
		Delete(&model.ShopSettings{}).Error
}
