package controller

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sizechart_dev_v1/internal/middleware"
	"sizechart_dev_v1/internal/model"
	"sizechart_dev_v1/internal/repository"
	"sizechart_dev_v1/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testWebhookSecret = "webhook-secret"

func setupWebhookTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	db.AutoMigrate(
		&model.Template{}, &model.ProductAssignment{},
		&model.ShopSettings{}, &model.Subscription{},
		&model.Session{}, &model.DraftOrderLog{},
	)

	redactSvc := service.NewRedactService(
		db,
		repository.NewTemplateRepository(db),
		repository.NewAssignmentRepository(db),
		repository.NewSettingsRepository(db),
		repository.NewSubscriptionRepository(db),
		repository.NewSessionRepository(db),
		repository.NewDraftOrderLogRepository(db),
	)
	ctl := NewWebhookController(redactSvc)

	r := gin.New()
	webhooks := r.Group("/webhooks")
	webhooks.Use(middleware.WebhookVerify(testWebhookSecret))
	{
		webhooks.POST("/shop/redact", ctl.HandleShopRedact)
		webhooks.POST("/customers/redact", ctl.HandleCustomersRedact)
		webhooks.POST("/customers/data_request", ctl.HandleCustomersDataRequest)
	}
	return r, db
}

func signWebhookBody(body string) string {
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	mac.Write([]byte(body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestWebhookController_ShopRedact(t *testing.T) {
	r, db := setupWebhookTest(t)

	db.Create(&model.Session{Shop: "acme.myshopify.com", AccessToken: "token"})
	db.Create(&model.ShopSettings{Shop: "acme.myshopify.com", ButtonText: "Size Guide"})

	body := `{"shop_domain":"acme.myshopify.com","shop_id":12345}`
	req := httptest.NewRequest("POST", "/webhooks/shop/redact", strings.NewReader(body))
	req.Header.Set("X-Shopify-Hmac-Sha256", signWebhookBody(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var count int64
	db.Model(&model.Session{}).Where("shop = ?", "acme.myshopify.com").Count(&count)
	if count != 0 {
		t.Errorf("会话仍残留 %d 条", count)
	}
	db.Model(&model.ShopSettings{}).Where("shop = ?", "acme.myshopify.com").Count(&count)
	if count != 0 {
		t.Errorf("配置仍残留 %d 条", count)
	}
}

func TestWebhookController_ShopRedact_MalformedPayload(t *testing.T) {
	r, _ := setupWebhookTest(t)

	// 载荷不合法也要应答 200，这是平台合规要求
	body := `not-json`
	req := httptest.NewRequest("POST", "/webhooks/shop/redact", strings.NewReader(body))
	req.Header.Set("X-Shopify-Hmac-Sha256", signWebhookBody(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestWebhookController_CustomerTopics(t *testing.T) {
	r, _ := setupWebhookTest(t)

	for _, path := range []string{"/webhooks/customers/redact", "/webhooks/customers/data_request"} {
		body := `{"shop_domain":"acme.myshopify.com"}`
		req := httptest.NewRequest("POST", path, strings.NewReader(body))
		req.Header.Set("X-Shopify-Hmac-Sha256", signWebhookBody(body))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", path, w.Code)
		}
	}
}
