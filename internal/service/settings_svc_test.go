package service

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sizechart_dev_v1/internal/model"
	"sizechart_dev_v1/internal/repository"
)

func setupSettingsTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	db.AutoMigrate(&model.ShopSettings{})
	return db
}

func strPtr(s string) *string { return &s }

func TestSettingsService_Get_Defaults(t *testing.T) {
	db := setupSettingsTestDB(t)
	svc := NewSettingsService(repository.NewSettingsRepository(db))

	settings, err := svc.Get(context.Background(), "acme")
	if err != nil {
		t.Fatalf("读取配置失败: %v", err)
	}
	if settings.ButtonText != "Size Guide" || settings.ButtonSize != "medium" {
		t.Errorf("默认值不符: %+v", settings)
	}
	if settings.ButtonColor != "#000000" || settings.Layout != "inline" {
		t.Errorf("默认值不符: %+v", settings)
	}
}

func TestSettingsService_Upsert_Partial(t *testing.T) {
	db := setupSettingsTestDB(t)
	svc := NewSettingsService(repository.NewSettingsRepository(db))
	ctx := context.Background()

	// 首次写入：未给的字段用默认值补齐
	settings, err := svc.Upsert(ctx, "acme", &SettingsInput{
		ButtonColor: strPtr("#ff0000"),
	})
	if err != nil {
		t.Fatalf("写入配置失败: %v", err)
	}
	if settings.ButtonColor != "#ff0000" {
		t.Errorf("button_color = %s, want #ff0000", settings.ButtonColor)
	}
	if settings.ButtonText != "Size Guide" {
		t.Errorf("未指定的字段应为默认值: %s", settings.ButtonText)
	}

	// 第二次写入：只动 Layout，其余保持
	settings, err = svc.Upsert(ctx, "acme", &SettingsInput{
		Layout: strPtr("modal"),
	})
	if err != nil {
		t.Fatalf("写入配置失败: %v", err)
	}
	if settings.Layout != "modal" || settings.ButtonColor != "#ff0000" {
		t.Errorf("部分更新结果不符: %+v", settings)
	}

	// 店铺至多一条记录
	var count int64
	db.Model(&model.ShopSettings{}).Count(&count)
	if count != 1 {
		t.Errorf("记录条数 = %d, want 1", count)
	}
}

func TestSettingsService_Upsert_HandleEquivalence(t *testing.T) {
	db := setupSettingsTestDB(t)
	svc := NewSettingsService(repository.NewSettingsRepository(db))
	ctx := context.Background()

	svc.Upsert(ctx, "acme", &SettingsInput{ButtonText: strPtr("查看尺码")})

	// 完整域名写法读到同一条
	settings, err := svc.Get(ctx, "acme.myshopify.com")
	if err != nil {
		t.Fatalf("读取配置失败: %v", err)
	}
	if settings.ButtonText != "查看尺码" {
		t.Errorf("button_text = %s, want 查看尺码", settings.ButtonText)
	}
}
