package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"sizechart_dev_v1/internal/model"
)

// ==================== 接口定义 ====================

// SessionRepository 授权凭证仓储接口
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	// ListByShop 按签发时间倒序返回店铺全部凭证
	ListByShop(ctx context.Context, shops []string) ([]model.Session, error)
	// PurgeExpired 清理过期凭证，返回清理条数
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)
	DeleteByShop(ctx context.Context, tx *gorm.DB, shops []string) error
}

// ==================== 仓储实现 ====================

type sessionRepo struct {
	db *gorm.DB
}

// NewSessionRepository 创建授权凭证仓储
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Create(ctx context.Context, session *model.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepo) ListByShop(ctx context.Context, shops []string) ([]model.Session, error) {
	var sessions []model.Session
	err := r.db.WithContext(ctx).
		Where("shop IN ?", shops).
		Order("created_at DESC").
		Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepo) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Unscoped().
		Where("expires_at IS NOT NULL AND expires_at < ?", before).
		Delete(&model.Session{})
	return result.RowsAffected, result.Error
}

func (r *sessionRepo) DeleteByShop(ctx context.Context, tx *gorm.DB, shops []string) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).
		Unscoped().
		Where("shop IN ?", shops).
		Delete(&model.Session{}).Error
}
