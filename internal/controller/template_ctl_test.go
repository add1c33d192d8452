package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sizechart_dev_v1/internal/model"
	"sizechart_dev_v1/internal/repository"
	"sizechart_dev_v1/internal/service"
)

// ==================== 测试辅助 ====================

func setupTemplateTest(t *testing.T) (*gin.Engine, *gorm.DB) {
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
	repository.NewSubscriptionRepository(db).SeedPlans(context.Background())

	templateRepo := repository.NewTemplateRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	subscriptionSvc := service.NewSubscriptionService(
		repository.NewSubscriptionRepository(db), templateRepo, assignmentRepo,
	)
	templateSvc := service.NewTemplateService(templateRepo, assignmentRepo, subscriptionSvc, nil)
	assignmentSvc := service.NewAssignmentService(db, templateRepo, assignmentRepo, nil, nil, subscriptionSvc)
	ctl := NewTemplateController(templateSvc, assignmentSvc)

	// 测试路由不挂会话认证，店铺走 query 兜底
	r := gin.New()
	api := r.Group("/api/templates")
	{
		api.GET("", ctl.GetTemplateList)
		api.GET("/:id", ctl.GetTemplateDetail)
		api.GET("/:id/assignments", ctl.GetTemplateAssignments)
		api.POST("/action", ctl.HandleAction)
	}
	return r, db
}

func postAction(t *testing.T, r http.Handler, shop string, payload map[string]interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	jsonBytes, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", "/api/templates/action?shop="+shop, bytes.NewBuffer(jsonBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("应答不是合法 JSON: %s", w.Body.String())
	}
	return w, body
}

func tableDataJSON(t *testing.T) string {
	raw, err := json.Marshal(model.TableChartData{
		Columns: []string{"Size", "Chest"},
		Rows:    [][]string{{"S", "90"}},
		Unit:    "cm",
	})
	if err != nil {
		t.Fatal(err)
	}
	return string(raw)
}

// ==================== 接口测试 ====================

func TestTemplateController_CreateIntent(t *testing.T) {
	r, db := setupTemplateTest(t)

	w, body := postAction(t, r, "acme", map[string]interface{}{
		"intent":     "create",
		"name":       "Shirt Sizes",
		"chart_type": "table",
		"table_data": tableDataJSON(t),
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])

	var tpl model.Template
	db.First(&tpl)
	assert.Equal(t, "acme.myshopify.com", tpl.Shop)
	assert.Equal(t, model.ChartTypeTable, tpl.ChartType)
}

func TestTemplateController_CreateIntent_Duplicate(t *testing.T) {
	r, _ := setupTemplateTest(t)

	payload := map[string]interface{}{
		"intent":     "create",
		"name":       "Shirt Sizes",
		"chart_type": "table",
		"table_data": tableDataJSON(t),
	}
	postAction(t, r, "acme", payload)

	w, body := postAction(t, r, "acme", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])
}

func TestTemplateController_AssignProductsIntent(t *testing.T) {
	r, db := setupTemplateTest(t)

	_, created := postAction(t, r, "acme", map[string]interface{}{
		"intent":     "create",
		"name":       "Shirt Sizes",
		"chart_type": "table",
		"table_data": tableDataJSON(t),
	})
	templateID := created["data"].(map[string]interface{})["id"].(float64)

	w, body := postAction(t, r, "acme", map[string]interface{}{
		"intent":      "assign-products",
		"template_id": templateID,
		"product_ids": []string{"gid://shopify/Product/101", "102"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	result := body["data"].(map[string]interface{})
	assert.Equal(t, float64(2), result["added"])

	var count int64
	db.Model(&model.ProductAssignment{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestTemplateController_DeleteIntent_Blocked(t *testing.T) {
	r, db := setupTemplateTest(t)

	_, created := postAction(t, r, "acme", map[string]interface{}{
		"intent":     "create",
		"name":       "Shirt Sizes",
		"chart_type": "table",
		"table_data": tableDataJSON(t),
	})
	templateID := created["data"].(map[string]interface{})["id"].(float64)

	db.Create(&model.ProductAssignment{
		Shop: "acme.myshopify.com", TemplateID: int64(templateID),
		ProductID: "101", ProductTitle: "Linen Shirt", ChartType: model.ChartTypeTable,
	})

	w, body := postAction(t, r, "acme", map[string]interface{}{
		"intent":      "delete",
		"template_id": templateID,
	})

	// 仍有关联时 409，附带阻塞商品信息
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, float64(1), body["product_count"])
	titles := body["product_titles"].([]interface{})
	assert.Equal(t, "Linen Shirt", titles[0])
}

func TestTemplateController_UnknownIntent(t *testing.T) {
	r, _ := setupTemplateTest(t)

	w, _ := postAction(t, r, "acme", map[string]interface{}{"intent": "explode"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTemplateController_GetList(t *testing.T) {
	r, _ := setupTemplateTest(t)

	postAction(t, r, "acme", map[string]interface{}{
		"intent":     "create",
		"name":       "Shirt Sizes",
		"chart_type": "table",
		"table_data": tableDataJSON(t),
	})

	req := httptest.NewRequest("GET", "/api/templates?shop=acme", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	assert.Len(t, body["table_templates"], 1)
	assert.Len(t, body["measurement_templates"], 0)
	assert.Equal(t, float64(1), body["total"])
}
