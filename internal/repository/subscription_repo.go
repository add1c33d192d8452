package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"sizechart_dev_v1/internal/model"
)

// ==================== 接口定义 ====================

// SubscriptionRepository 套餐仓储接口
type SubscriptionRepository interface {
	// GetOrCreate 获取店铺订阅，没有则按 free 创建
	GetOrCreate(ctx context.Context, shop string, shops []string) (*model.Subscription, error)
	UpdatePlan(ctx context.Context, shop string, shops []string, planCode string) error
	GetPlan(ctx context.Context, code string) (*model.Plan, error)
	SeedPlans(ctx context.Context) error
	DeleteByShop(ctx context.Context, tx *gorm.DB, shops []string) error
}

// ==================== 仓储实现 ====================

type subscriptionRepo struct {
	db *gorm.DB
}

// NewSubscriptionRepository 创建套餐仓储
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepo{db: db}
}

func (r *subscriptionRepo) GetOrCreate(ctx context.Context, shop string, shops []string) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.WithContext(ctx).
		Where("shop IN ?", shops).
		First(&sub).Error
	if err == nil {
		return &sub, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sub = model.Subscription{
		Shop:     shop,
		PlanCode: model.PlanFree,
		Status:   "active",
	}
	if err := r.db.WithContext(ctx).Create(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepo) UpdatePlan(ctx context.Context, shop string, shops []string, planCode string) error {
	return r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("shop IN ?", shops).
		Update("plan_code", planCode).Error
}

func (r *subscriptionRepo) GetPlan(ctx context.Context, code string) (*model.Plan, error) {
	var plan model.Plan
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// SeedPlans 播种内置套餐，已存在的跳过
func (r *subscriptionRepo) SeedPlans(ctx context.Context) error {
	for _, plan := range model.SeedPlans() {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&model.Plan{}).
			Where("code = ?", plan.Code).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := r.db.WithContext(ctx).Create(&plan).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *subscriptionRepo) DeleteByShop(ctx context.Context, tx *gorm.DB, shops []string) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).
		Unscoped().
		Where("shop IN ?", shops).
		Delete(&model.Subscription{}).Error
}
