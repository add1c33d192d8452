package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sizechart_dev_v1/internal/api/dto"
	"sizechart_dev_v1/internal/service"
)

type SubscriptionController struct {
	subscriptionSvc *service.SubscriptionService
}

func NewSubscriptionController(subscriptionSvc *service.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{subscriptionSvc: subscriptionSvc}
}

// GetUsage 获取店铺用量与限额
// @Summary 获取店铺用量与限额
// @Description 返回当前套餐、模板用量、关联用量；首次访问自动落 free 订阅
// @Tags Subscription (套餐)
// @Produce json
// @Success 200 {object} dto.ActionResp "用量汇总"
// @Router /api/subscription/usage [get]
func (c *SubscriptionController) GetUsage(ctx *gin.Context) {
	usage, err := c.subscriptionSvc.Usage(ctx.Request.Context(), shopFromRequest(ctx))
	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ActionResp{Success: true, Data: usage})
}
