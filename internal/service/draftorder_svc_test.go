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

// ==================== 测试辅助 ====================

func setupDraftOrderTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	db.AutoMigrate(
		&model.Template{}, &model.ProductAssignment{},
		&model.Session{}, &model.DraftOrderLog{},
	)
	return db
}

func newTestDraftOrderService(db *gorm.DB) *DraftOrderService {
	return NewDraftOrderService(
		NewSessionService(repository.NewSessionRepository(db)),
		NewShopifyService(nil),
		repository.NewAssignmentRepository(db),
		repository.NewTemplateRepository(db),
		repository.NewDraftOrderLogRepository(db),
	)
}

// ==================== 量体字段展示名 ====================

func TestFormatMeasurementName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"chest/bust", "Chest / Bust"},
		{"waist", "Waist"},
		{"sleeve length", "Sleeve Length"},
		{"hip / thigh", "Hip / Thigh"},
		{"Neck", "Neck"},
	}

	for _, c := range cases {
		if got := FormatMeasurementName(c.in); got != c.want {
			t.Errorf("FormatMeasurementName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

// ==================== 属性顺序 ====================

func TestDraftOrderService_BuildProperties_TemplateOrder(t *testing.T) {
	db := setupDraftOrderTestDB(t)
	svc := newTestDraftOrderService(db)
	ctx := context.Background()

	tpl := &model.Template{
		Shop:      "acme.myshopify.com",
		Name:      "Custom Suit",
		Active:    true,
		ChartType: model.ChartTypeMeasurement,
		Fields: &model.MeasurementFieldList{
			{Name: "chest/bust", SortOrder: 1},
			{Name: "waist", SortOrder: 2},
			{Name: "inseam", SortOrder: 3},
		},
	}
	db.Create(tpl)
	db.Create(&model.ProductAssignment{
		Shop: "acme.myshopify.com", TemplateID: tpl.ID,
		ProductID: "101", ChartType: model.ChartTypeMeasurement,
	})

	properties := svc.buildProperties(ctx, "acme", "101", map[string]string{
		"waist":      "70",
		"inseam":     "80",
		"chest/bust": "95",
	})

	want := []string{"Chest / Bust", "Waist", "Inseam"}
	if len(properties) != len(want) {
		t.Fatalf("properties = %d, want %d", len(properties), len(want))
	}
	for i, name := range want {
		if properties[i].Name != name {
			t.Errorf("properties[%d].Name = %s, want %s", i, properties[i].Name, name)
		}
	}
	if properties[0].Value != "95" {
		t.Errorf("properties[0].Value = %s, want 95", properties[0].Value)
	}
}

func TestDraftOrderService_BuildProperties_FallbackSorted(t *testing.T) {
	db := setupDraftOrderTestDB(t)
	svc := newTestDraftOrderService(db)

	// 无模板关联时按字段名升序兜底
	properties := svc.buildProperties(context.Background(), "acme", "999", map[string]string{
		"waist": "70",
		"chest": "95",
		"hip":   "100",
	})

	want := []string{"Chest", "Hip", "Waist"}
	for i, name := range want {
		if properties[i].Name != name {
			t.Errorf("properties[%d].Name = %s, want %s", i, properties[i].Name, name)
		}
	}
}

// ==================== 下单前置校验 ====================

func TestDraftOrderService_Create_Validation(t *testing.T) {
	db := setupDraftOrderTestDB(t)
	svc := newTestDraftOrderService(db)
	ctx := context.Background()

	cases := []*DraftOrderRequest{
		nil,
		{ProductID: "", Measurements: map[string]string{"waist": "70"}},
		{ProductID: "101", Measurements: nil},
	}
	for i, req := range cases {
		_, err := svc.Create(ctx, "acme", req)
		var validation *apperr.ErrValidation
		if !errors.As(err, &validation) {
			t.Errorf("case %d: err = %v, want ErrValidation", i, err)
		}
	}
}

func TestDraftOrderService_Create_ShopNotInstalled(t *testing.T) {
	db := setupDraftOrderTestDB(t)
	svc := newTestDraftOrderService(db)

	_, err := svc.Create(context.Background(), "acme", &DraftOrderRequest{
		ProductID:    "101",
		Measurements: map[string]string{"waist": "70"},
	})
	var notInstalled *apperr.ErrShopNotInstalled
	if !errors.As(err, &notInstalled) {
		t.Errorf("err = %v, want ErrShopNotInstalled", err)
	}
}

func TestDraftOrderService_Create_SessionExpired(t *testing.T) {
	db := setupDraftOrderTestDB(t)
	svc := newTestDraftOrderService(db)

	expired := time.Now().Add(-time.Hour)
	db.Create(&model.Session{
		Shop:        "acme.myshopify.com",
		AccessToken: "stale-token",
		ExpiresAt:   &expired,
	})

	_, err := svc.Create(context.Background(), "acme", &DraftOrderRequest{
		ProductID:    "101",
		Measurements: map[string]string{"waist": "70"},
	})
	var sessionExpired *apperr.ErrSessionExpired
	if !errors.As(err, &sessionExpired) {
		t.Errorf("err = %v, want ErrSessionExpired", err)
	}
}
