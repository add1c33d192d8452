package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sizechart_dev_v1/internal/apperr"
	"sizechart_dev_v1/internal/model"
	"sizechart_dev_v1/internal/repository"
)

// ==================== 测试辅助 ====================

func setupTemplateTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	db.AutoMigrate(
		&model.Template{}, &model.ProductAssignment{},
		&model.Plan{}, &model.Subscription{},
	)

	if err := repository.NewSubscriptionRepository(db).SeedPlans(context.Background()); err != nil {
		t.Fatalf("套餐数据初始化失败: %v", err)
	}
	return db
}

func newTestTemplateService(db *gorm.DB) *TemplateService {
	templateRepo := repository.NewTemplateRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	subscriptionSvc := NewSubscriptionService(
		repository.NewSubscriptionRepository(db), templateRepo, assignmentRepo,
	)
	return NewTemplateService(templateRepo, assignmentRepo, subscriptionSvc, nil)
}

func tableInput(name string) *TemplateInput {
	return &TemplateInput{
		Name:      name,
		Gender:    "unisex",
		Category:  "shirt",
		ChartType: model.ChartTypeTable,
		TableData: &model.TableChartData{
			Columns: []string{"Size", "Chest"},
			Rows:    [][]string{{"S", "90"}, {"M", "96"}},
			Unit:    "cm",
		},
	}
}

func measurementInput(name string) *TemplateInput {
	return &TemplateInput{
		Name:      name,
		Gender:    "male",
		Category:  "suit",
		ChartType: model.ChartTypeMeasurement,
		Fields: &model.MeasurementFieldList{
			{Name: "chest/bust", Unit: "cm", Required: true, Enabled: true, SortOrder: 1},
			{Name: "waist", Unit: "cm", Required: true, Enabled: true, SortOrder: 2},
		},
	}
}

// ==================== 单元测试 ====================

func TestTemplateService_Create(t *testing.T) {
	db := setupTemplateTestDB(t)
	svc := newTestTemplateService(db)
	ctx := context.Background()

	tpl, err := svc.Create(ctx, "acme", tableInput("Shirt Sizes"), nil)
	if err != nil {
		t.Fatalf("创建模板失败: %v", err)
	}

	if tpl.Shop != "acme.myshopify.com" {
		t.Errorf("shop = %s, want acme.myshopify.com", tpl.Shop)
	}
	if !tpl.Active {
		t.Error("新建模板应默认启用")
	}
	if tpl.ChartType != model.ChartTypeTable {
		t.Errorf("chart_type = %s, want table", tpl.ChartType)
	}

	// 表格数据要能完整读回
	found, err := svc.Get(ctx, "acme.myshopify.com", tpl.ID)
	if err != nil {
		t.Fatalf("查询模板失败: %v", err)
	}
	if found.TableData == nil || len(found.TableData.Rows) != 2 {
		t.Errorf("表格数据读回不完整: %+v", found.TableData)
	}
}

func TestTemplateService_Create_DuplicateName(t *testing.T) {
	db := setupTemplateTestDB(t)
	svc := newTestTemplateService(db)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "acme", tableInput("Shirt Sizes"), nil); err != nil {
		t.Fatalf("创建模板失败: %v", err)
	}

	// 名称带空白也要命中重名
	_, err := svc.Create(ctx, "acme", tableInput("  Shirt Sizes  "), nil)
	var dup *apperr.ErrDuplicateName
	if !errors.As(err, &dup) {
		t.Fatalf("err = %v, want ErrDuplicateName", err)
	}

	// 其他店铺不受影响
	if _, err := svc.Create(ctx, "other", tableInput("Shirt Sizes"), nil); err != nil {
		t.Errorf("不同店铺同名应允许: %v", err)
	}
}

func TestTemplateService_Create_PlanLimit(t *testing.T) {
	db := setupTemplateTestDB(t)
	svc := newTestTemplateService(db)
	ctx := context.Background()

	// free 套餐限 3 个模板
	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ctx, "acme", tableInput(fmt.Sprintf("Template %d", i)), nil); err != nil {
			t.Fatalf("创建第 %d 个模板失败: %v", i+1, err)
		}
	}

	_, err := svc.Create(ctx, "acme", tableInput("One Too Many"), nil)
	var limit *apperr.ErrPlanLimit
	if !errors.As(err, &limit) {
		t.Fatalf("err = %v, want ErrPlanLimit", err)
	}
	if limit.Limit != 3 {
		t.Errorf("limit = %d, want 3", limit.Limit)
	}
}

func TestTemplateService_Create_Validation(t *testing.T) {
	db := setupTemplateTestDB(t)
	svc := newTestTemplateService(db)
	ctx := context.Background()

	cases := []*TemplateInput{
		nil,
		{Name: "", ChartType: model.ChartTypeTable},
		{Name: "X", ChartType: "unknown"},
		{Name: "X", ChartType: model.ChartTypeTable}, // 缺表格数据
		{Name: "X", ChartType: model.ChartTypeMeasurement, Fields: &model.MeasurementFieldList{}},
	}
	for i, input := range cases {
		_, err := svc.Create(ctx, "acme", input, nil)
		var validation *apperr.ErrValidation
		if !errors.As(err, &validation) {
			t.Errorf("case %d: err = %v, want ErrValidation", i, err)
		}
	}
}

func TestTemplateService_Update(t *testing.T) {
	db := setupTemplateTestDB(t)
	svc := newTestTemplateService(db)
	ctx := context.Background()

	tpl, _ := svc.Create(ctx, "acme", tableInput("Shirt Sizes"), nil)
	svc.Create(ctx, "acme", tableInput("Pants Sizes"), nil)

	// 改到已占用的名称要被拒
	_, err := svc.Update(ctx, "acme", tpl.ID, &TemplateInput{Name: "Pants Sizes"}, nil)
	var dup *apperr.ErrDuplicateName
	if !errors.As(err, &dup) {
		t.Fatalf("err = %v, want ErrDuplicateName", err)
	}

	// 部分更新：只改描述，名称保持
	updated, err := svc.Update(ctx, "acme", tpl.ID, &TemplateInput{Description: "updated"}, nil)
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	if updated.Name != "Shirt Sizes" || updated.Description != "updated" {
		t.Errorf("部分更新结果不符: name=%s desc=%s", updated.Name, updated.Description)
	}
}

func TestTemplateService_ToggleActive(t *testing.T) {
	db := setupTemplateTestDB(t)
	svc := newTestTemplateService(db)
	ctx := context.Background()

	tpl, _ := svc.Create(ctx, "acme", tableInput("Shirt Sizes"), nil)

	toggled, err := svc.ToggleActive(ctx, "acme", tpl.ID)
	if err != nil {
		t.Fatalf("停用失败: %v", err)
	}
	if toggled.Active {
		t.Error("停用后 active 应为 false")
	}

	toggled, _ = svc.ToggleActive(ctx, "acme", tpl.ID)
	if !toggled.Active {
		t.Error("再次翻转后 active 应为 true")
	}
}

func TestTemplateService_Delete_Blocked(t *testing.T) {
	db := setupTemplateTestDB(t)
	svc := newTestTemplateService(db)
	ctx := context.Background()

	tpl, _ := svc.Create(ctx, "acme", tableInput("Shirt Sizes"), nil)

	// 直接落 7 条关联
	for i := 0; i < 7; i++ {
		db.Create(&model.ProductAssignment{
			Shop:         "acme.myshopify.com",
			TemplateID:   tpl.ID,
			ProductID:    fmt.Sprintf("10%d", i),
			ProductTitle: fmt.Sprintf("Product %d", i),
			ChartType:    model.ChartTypeTable,
		})
	}

	err := svc.Delete(ctx, "acme", tpl.ID)
	var blocked *apperr.ErrHasAssignments
	if !errors.As(err, &blocked) {
		t.Fatalf("err = %v, want ErrHasAssignments", err)
	}
	if blocked.Count != 7 {
		t.Errorf("count = %d, want 7", blocked.Count)
	}
	// 标题最多带 5 个
	if len(blocked.Titles) != 5 {
		t.Errorf("titles = %d, want 5", len(blocked.Titles))
	}

	// 模板没有被删
	if _, err := svc.Get(ctx, "acme", tpl.ID); err != nil {
		t.Errorf("被拒后模板应保留: %v", err)
	}
}

func TestTemplateService_Delete(t *testing.T) {
	db := setupTemplateTestDB(t)
	svc := newTestTemplateService(db)
	ctx := context.Background()

	tpl, _ := svc.Create(ctx, "acme", measurementInput("Custom Suit"), nil)

	if err := svc.Delete(ctx, "acme", tpl.ID); err != nil {
		t.Fatalf("删除失败: %v", err)
	}

	_, err := svc.Get(ctx, "acme", tpl.ID)
	var notFound *apperr.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestTemplateService_List_GroupedByType(t *testing.T) {
	db := setupTemplateTestDB(t)
	svc := newTestTemplateService(db)
	ctx := context.Background()

	svc.Create(ctx, "acme", tableInput("Shirt Sizes"), nil)
	svc.Create(ctx, "acme", measurementInput("Custom Suit"), nil)
	svc.Create(ctx, "other", tableInput("Other Shop"), nil)

	listing, err := svc.List(ctx, "acme", ListFilter{})
	if err != nil {
		t.Fatalf("列表查询失败: %v", err)
	}
	if len(listing.TableTemplates) != 1 || len(listing.MeasurementTemplates) != 1 {
		t.Errorf("分组结果不符: table=%d measurement=%d",
			len(listing.TableTemplates), len(listing.MeasurementTemplates))
	}
	if listing.Total != 2 {
		t.Errorf("total = %d, want 2", listing.Total)
	}
}

func TestTemplateService_ShopIsolation(t *testing.T) {
	db := setupTemplateTestDB(t)
	svc := newTestTemplateService(db)
	ctx := context.Background()

	tpl, _ := svc.Create(ctx, "acme", tableInput("Shirt Sizes"), nil)

	// 其他店铺拿不到
	_, err := svc.Get(ctx, "other", tpl.ID)
	var notFound *apperr.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Errorf("跨店铺访问应返回 ErrNotFound, got %v", err)
	}

	// 两种店铺写法等价
	if _, err := svc.Get(ctx, "acme.myshopify.com", tpl.ID); err != nil {
		t.Errorf("完整域名写法应能访问: %v", err)
	}
}
