package repository

import (
	"context"

	"gorm.io/gorm"

	"sizechart_dev_v1/internal/model"
)

// DraftOrderLogRepository 草稿订单记录仓储接口
type DraftOrderLogRepository interface {
	Create(ctx context.Context, logEntry *model.DraftOrderLog) error
	ListByShop(ctx context.Context, shops []string, page, pageSize int) ([]model.DraftOrderLog, int64, error)
	DeleteByShop(ctx context.Context, tx *gorm.DB, shops []string) error
}

type draftOrderLogRepo struct {
	db *gorm.DB
}

// NewDraftOrderLogRepository 创建草稿订单记录仓储
func NewDraftOrderLogRepository(db *gorm.DB) DraftOrderLogRepository {
	return &draftOrderLogRepo{db: db}
}

func (r *draftOrderLogRepo) Create(ctx context.Context, logEntry *model.DraftOrderLog) error {
	return r.db.WithContext(ctx).Create(logEntry).Error
}

func (r *draftOrderLogRepo) ListByShop(ctx context.Context, shops []string, page, pageSize int) ([]model.DraftOrderLog, int64, error) {
	var logs []model.DraftOrderLog
	var total int64

	query := r.db.WithContext(ctx).
		Model(&model.DraftOrderLog{}).
		Where("shop IN ?", shops)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	err := query.
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&logs).Error
	return logs, total, err
}

func (r *draftOrderLogRepo) DeleteByShop(ctx context.Context, tx *gorm.DB, shops []string) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).
		Unscoped().
		Where("shop IN ?", shops).
		Delete(&model.DraftOrderLog{}).Error
}
