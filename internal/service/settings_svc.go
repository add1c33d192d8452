package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"sizechart_dev_v1/internal/model"
	"sizechart_dev_v1/internal/repository"
	"sizechart_dev_v1/pkg/shopid"
)

// SettingsInput 更新店铺配置的入参（nil 字段不更新）
type SettingsInput struct {
	ButtonText  *string
	ButtonSize  *string
	ButtonColor *string
	Layout      *string
	AppURL      *string
}

// SettingsService 店铺展示配置
type SettingsService struct {
	SettingsRepo repository.SettingsRepository
}

func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{SettingsRepo: settingsRepo}
}

// Get 读取店铺配置，没有记录时返回默认值（不落库）
func (s *SettingsService) Get(ctx context.Context, shop string) (*model.ShopSettings, error) {
	settings, err := s.SettingsRepo.GetByShop(ctx, shopid.ShopCandidates(shop))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.DefaultSettings(shopid.NormalizeShop(shop)), nil
		}
		return nil, err
	}
	return settings, nil
}

// Upsert 写入店铺配置，首次写入时以默认值为底
func (s *SettingsService) Upsert(ctx context.Context, shop string, input *SettingsInput) (*model.ShopSettings, error) {
	settings, err := s.SettingsRepo.GetByShop(ctx, shopid.ShopCandidates(shop))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		settings = model.DefaultSettings(shopid.NormalizeShop(shop))
	}

	if input.ButtonText != nil {
		settings.ButtonText = *input.ButtonText
	}
	if input.ButtonSize != nil {
		settings.ButtonSize = *input.ButtonSize
	}
	if input.ButtonColor != nil {
		settings.ButtonColor = *input.ButtonColor
	}
	if input.Layout != nil {
		settings.Layout = *input.Layout
	}
	if input.AppURL != nil {
		settings.AppURL = *input.AppURL
	}

	if err := s.SettingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
