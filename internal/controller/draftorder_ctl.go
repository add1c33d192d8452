package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sizechart_dev_v1/internal/api/dto"
	"sizechart_dev_v1/internal/apperr"
	"sizechart_dev_v1/internal/service"
)

// DraftOrderController 定制下单公开接口
type DraftOrderController struct {
	draftOrderSvc *service.DraftOrderService
}

func NewDraftOrderController(draftOrderSvc *service.DraftOrderService) *DraftOrderController {
	return &DraftOrderController{draftOrderSvc: draftOrderSvc}
}

// CreateDraftOrder 创建定制草稿订单
// @Summary 创建定制草稿订单
// @Description 将顾客量体数据转为行项目属性并创建草稿订单，返回结账链接
// @Tags Storefront (店面公开接口)
// @Accept json
// @Produce json
// @Param shop query string true "店铺域名"
// @Param request body dto.DraftOrderReq true "下单参数"
// @Success 200 {object} dto.DraftOrderResp "下单结果"
// @Failure 400 {object} dto.DraftOrderResp "参数错误"
// @Failure 401 {object} dto.DraftOrderResp "店铺未安装或授权过期"
// @Failure 404 {object} dto.DraftOrderResp "商品不存在"
// @Failure 500 {object} dto.DraftOrderResp "平台接口失败"
// @Router /public/draft-orders [post]
func (c *DraftOrderController) CreateDraftOrder(ctx *gin.Context) {
	shop := ctx.Query("shop")
	if shop == "" {
		fail(ctx, &apperr.ErrValidation{Message: "缺少店铺参数"})
		return
	}

	var req dto.DraftOrderReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		fail(ctx, &apperr.ErrValidation{Message: "参数错误: " + err.Error()})
		return
	}

	result, err := c.draftOrderSvc.Create(ctx.Request.Context(), shop, &service.DraftOrderRequest{
		ProductID:    req.ProductID,
		VariantID:    req.VariantID,
		Quantity:     req.Quantity,
		Measurements: req.Measurements,
	})
	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.DraftOrderResp{
		Success:        true,
		InvoiceURL:     result.InvoiceURL,
		DraftOrderID:   result.DraftOrderID,
		DraftOrderName: result.DraftOrderName,
	})
}
