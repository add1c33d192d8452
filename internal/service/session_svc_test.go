package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sizechart_dev_v1/internal/apperr"
	"sizechart_dev_v1/internal/model"
	"sizechart_dev_v1/internal/repository"
)

func setupSessionTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	db.AutoMigrate(&model.Session{})
	return db
}

func TestSessionService_ActiveSession(t *testing.T) {
	db := setupSessionTestDB(t)
	svc := NewSessionService(repository.NewSessionRepository(db))
	ctx := context.Background()

	// 无任何记录 -> 未安装
	_, err := svc.ActiveSession(ctx, "acme")
	var notInstalled *apperr.ErrShopNotInstalled
	if !errors.As(err, &notInstalled) {
		t.Fatalf("err = %v, want ErrShopNotInstalled", err)
	}

	// 全部过期 -> 授权过期
	expired := time.Now().Add(-time.Hour)
	db.Create(&model.Session{Shop: "acme.myshopify.com", AccessToken: "old", ExpiresAt: &expired})

	_, err = svc.ActiveSession(ctx, "acme")
	var sessionExpired *apperr.ErrSessionExpired
	if !errors.As(err, &sessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}

	// 离线 Token（无过期时间）可用
	db.Create(&model.Session{Shop: "acme.myshopify.com", AccessToken: "offline"})

	session, err := svc.ActiveSession(ctx, "acme")
	if err != nil {
		t.Fatalf("取凭证失败: %v", err)
	}
	if session.AccessToken != "offline" {
		t.Errorf("access_token = %s, want offline", session.AccessToken)
	}
}

func TestSessionService_ActiveSession_HandleEquivalence(t *testing.T) {
	db := setupSessionTestDB(t)
	svc := NewSessionService(repository.NewSessionRepository(db))
	ctx := context.Background()

	// 历史数据以短写法入库
	db.Create(&model.Session{Shop: "acme", AccessToken: "legacy"})

	session, err := svc.ActiveSession(ctx, "acme.myshopify.com")
	if err != nil {
		t.Fatalf("完整域名查短写法记录失败: %v", err)
	}
	if session.AccessToken != "legacy" {
		t.Errorf("access_token = %s, want legacy", session.AccessToken)
	}
}

func TestSessionService_Save(t *testing.T) {
	db := setupSessionTestDB(t)
	svc := NewSessionService(repository.NewSessionRepository(db))
	ctx := context.Background()

	if err := svc.Save(ctx, "acme", "token-1", "read_products", nil); err != nil {
		t.Fatalf("写入凭证失败: %v", err)
	}

	// 入库时统一为完整域名
	var session model.Session
	db.First(&session)
	if session.Shop != "acme.myshopify.com" {
		t.Errorf("shop = %s, want acme.myshopify.com", session.Shop)
	}
}

func TestSessionService_PurgeExpired(t *testing.T) {
	db := setupSessionTestDB(t)
	svc := NewSessionService(repository.NewSessionRepository(db))
	ctx := context.Background()

	expired := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	db.Create(&model.Session{Shop: "a.myshopify.com", AccessToken: "x", ExpiresAt: &expired})
	db.Create(&model.Session{Shop: "b.myshopify.com", AccessToken: "y", ExpiresAt: &future})
	db.Create(&model.Session{Shop: "c.myshopify.com", AccessToken: "z"})

	removed, err := svc.PurgeExpired(ctx)
	if err != nil {
		t.Fatalf("清理失败: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	// 未过期与离线凭证保留
	var count int64
	db.Model(&model.Session{}).Count(&count)
	if count != 2 {
		t.Errorf("剩余条数 = %d, want 2", count)
	}
}
