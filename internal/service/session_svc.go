package service

import (
	"context"
	"time"

	"sizechart_dev_v1/internal/apperr"
	"sizechart_dev_v1/internal/model"
	"sizechart_dev_v1/internal/repository"
	"sizechart_dev_v1/pkg/shopid"
)

// SessionService 店铺授权凭证管理
type SessionService struct {
	SessionRepo repository.SessionRepository
}

func NewSessionService(sessionRepo repository.SessionRepository) *SessionService {
	return &SessionService{SessionRepo: sessionRepo}
}

// ActiveSession 取店铺最新且未过期的凭证
// 两种店铺写法都探测；无记录 -> 未安装；全部过期 -> 授权过期
func (s *SessionService) ActiveSession(ctx context.Context, shop string) (*model.Session, error) {
	sessions, err := s.SessionRepo.ListByShop(ctx, shopid.ShopCandidates(shop))
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, &apperr.ErrShopNotInstalled{Shop: shop}
	}

	now := time.Now()
	for i := range sessions {
		if !sessions[i].Expired(now) {
			return &sessions[i], nil
		}
	}
	return nil, &apperr.ErrSessionExpired{Shop: shop}
}

// Save 写入新凭证（OAuth 回调用）
func (s *SessionService) Save(ctx context.Context, shop, accessToken, scope string, expiresAt *time.Time) error {
	return s.SessionRepo.Create(ctx, &model.Session{
		Shop:        shopid.NormalizeShop(shop),
		AccessToken: accessToken,
		Scope:       scope,
		ExpiresAt:   expiresAt,
	})
}

// PurgeExpired 清理过期凭证（定时任务调用）
func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.SessionRepo.PurgeExpired(ctx, time.Now())
}
