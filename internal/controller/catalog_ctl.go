package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sizechart_dev_v1/internal/api/dto"
	"sizechart_dev_v1/internal/service"
)

// CatalogController 商品目录（后台关联选择器用）
type CatalogController struct {
	sessionSvc *service.SessionService
	shopifySvc *service.ShopifyService
}

func NewCatalogController(sessionSvc *service.SessionService, shopifySvc *service.ShopifyService) *CatalogController {
	return &CatalogController{
		sessionSvc: sessionSvc,
		shopifySvc: shopifySvc,
	}
}

// GetProducts 拉取店铺商品目录
// @Summary 拉取店铺商品目录
// @Description 透传平台商品列表，供关联选择器检索
// @Tags Catalog (商品目录)
// @Produce json
// @Param limit query int false "数量上限" default(50)
// @Success 200 {object} dto.ActionResp "商品列表"
// @Failure 401 {object} dto.ActionResp "店铺未安装或授权过期"
// @Router /api/products [get]
func (c *CatalogController) GetProducts(ctx *gin.Context) {
	shop := shopFromRequest(ctx)

	session, err := c.sessionSvc.ActiveSession(ctx.Request.Context(), shop)
	if err != nil {
		fail(ctx, err)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))
	products, err := c.shopifySvc.ListProducts(ctx.Request.Context(), shop, session.AccessToken, limit)
	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ActionResp{Success: true, Data: products})
}
