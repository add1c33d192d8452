package service

import (
	"context"
	"log"

	"gorm.io/gorm"

	"sizechart_dev_v1/internal/repository"
	"sizechart_dev_v1/pkg/shopid"
)

// RedactService GDPR 店铺数据清除
// 平台合规要求：无论内部结果如何都要应答 200，错误只记日志
type RedactService struct {
	db               *gorm.DB
	TemplateRepo     repository.TemplateRepository
	AssignmentRepo   repository.AssignmentRepository
	SettingsRepo     repository.SettingsRepository
	SubscriptionRepo repository.SubscriptionRepository
	SessionRepo      repository.SessionRepository
	LogRepo          repository.DraftOrderLogRepository
}

func NewRedactService(
	db *gorm.DB,
	templateRepo repository.TemplateRepository,
	assignmentRepo repository.AssignmentRepository,
	settingsRepo repository.SettingsRepository,
	subscriptionRepo repository.SubscriptionRepository,
	sessionRepo repository.SessionRepository,
	logRepo repository.DraftOrderLogRepository,
) *RedactService {
	return &RedactService{
		db:               db,
		TemplateRepo:     templateRepo,
		AssignmentRepo:   assignmentRepo,
		SettingsRepo:     settingsRepo,
		SubscriptionRepo: subscriptionRepo,
		SessionRepo:      sessionRepo,
		LogRepo:          logRepo,
	}
}

// RedactShop 在单个事务内清除店铺的全部数据
func (s *RedactService) RedactShop(ctx context.Context, shop string) error {
	shops := shopid.ShopCandidates(shop)
	if len(shops) == 0 {
		return nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.AssignmentRepo.DeleteByShop(ctx, tx, shops); err != nil {
			return err
		}
		if err := s.TemplateRepo.DeleteByShop(ctx, tx, shops); err != nil {
			return err
		}
		if err := s.SettingsRepo.DeleteByShop(ctx, tx, shops); err != nil {
			return err
		}
		if err := s.SubscriptionRepo.DeleteByShop(ctx, tx, shops); err != nil {
			return err
		}
		if err := s.SessionRepo.DeleteByShop(ctx, tx, shops); err != nil {
			return err
		}
		return s.LogRepo.DeleteByShop(ctx, tx, shops)
	})
	if err != nil {
		log.Printf("[Redact] 店铺数据清除失败: %s: %v", shop, err)
	} else {
		log.Printf("[Redact] 店铺数据已清除: %s", shop)
	}
	return err
}
