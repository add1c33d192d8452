package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sizechart_dev_v1/internal/service"
)

// WebhookController 平台合规 webhook
// 按合规契约，三个主题一律应答 200
type WebhookController struct {
	redactSvc *service.RedactService
}

func NewWebhookController(redactSvc *service.RedactService) *WebhookController {
	return &WebhookController{redactSvc: redactSvc}
}

// redactPayload shop/redact 载荷
type redactPayload struct {
	ShopDomain string `json:"shop_domain"`
	ShopID     int64  `json:"shop_id"`
}

// HandleShopRedact 店铺数据清除
// @Summary 店铺数据清除 webhook
// @Description 单事务删除该店铺全部数据；内部结果不影响应答，一律 200
// @Tags Webhook (合规)
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /webhooks/shop/redact [post]
func (c *WebhookController) HandleShopRedact(ctx *gin.Context) {
	var payload redactPayload
	if err := ctx.ShouldBindJSON(&payload); err == nil && payload.ShopDomain != "" {
		// 错误已在服务内记日志，这里不回传
		_ = c.redactSvc.RedactShop(ctx.Request.Context(), payload.ShopDomain)
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// HandleCustomersRedact 顾客数据清除
// 本应用不存储顾客个人数据，确认即可
func (c *WebhookController) HandleCustomersRedact(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// HandleCustomersDataRequest 顾客数据导出请求
// 本应用不存储顾客个人数据，确认即可
func (c *WebhookController) HandleCustomersDataRequest(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
