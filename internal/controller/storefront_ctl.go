package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sizechart_dev_v1/internal/api/dto"
	"sizechart_dev_v1/internal/apperr"
	"sizechart_dev_v1/internal/service"
)

// StorefrontController 店面公开接口
// 所有接口无需认证，经 PublicCORS 放行跨域
type StorefrontController struct {
	storefrontSvc *service.StorefrontService
}

func NewStorefrontController(storefrontSvc *service.StorefrontService) *StorefrontController {
	return &StorefrontController{storefrontSvc: storefrontSvc}
}

// GetAppURL 探测应用自身 URL
// @Summary 探测应用自身 URL
// @Description 逐级探测：环境变量 -> 店铺配置 -> 转发头 -> 请求地址 -> Host -> Origin -> Referer -> 应用代理兜底
// @Tags Storefront (店面公开接口)
// @Produce json
// @Param shop query string true "店铺域名"
// @Success 200 {object} dto.AppURLResp "探测结果"
// @Router /public/app-url [get]
func (c *StorefrontController) GetAppURL(ctx *gin.Context) {
	shop := ctx.Query("shop")

	result := c.storefrontSvc.ResolveAppURL(ctx.Request.Context(), ctx.Request, shop)

	ctx.JSON(http.StatusOK, dto.AppURLResp{
		Success:  true,
		AppURL:   result.URL,
		Strategy: result.Strategy,
		Detected: result.Detected,
	})
}

// GetChartTypes 查询商品可用的尺码表类型
// @Summary 查询商品可用的尺码表类型
// @Description 返回该商品是否挂有启用中的表格模板 / 量体模板
// @Tags Storefront (店面公开接口)
// @Produce json
// @Param shop query string true "店铺域名"
// @Param productId query string true "商品ID（GID 或数字）"
// @Success 200 {object} dto.ChartTypesResp "可用类型"
// @Failure 400 {object} dto.ActionResp "参数错误"
// @Router /public/chart-types [get]
func (c *StorefrontController) GetChartTypes(ctx *gin.Context) {
	var req dto.StorefrontQuery
	if err := ctx.ShouldBindQuery(&req); err != nil {
		fail(ctx, &apperr.ErrValidation{Message: "参数错误: " + err.Error()})
		return
	}
	if req.ProductID == "" {
		fail(ctx, &apperr.ErrValidation{Message: "缺少商品ID"})
		return
	}

	availability, err := c.storefrontSvc.ChartTypes(ctx.Request.Context(), req.Shop, req.ProductID)
	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ChartTypesResp{
		Success:           true,
		HasTableTemplate:  availability.HasTableTemplate,
		HasCustomTemplate: availability.HasCustomTemplate,
	})
}

// GetSettings 店面展示配置
// @Summary 店面展示配置
// @Description 返回店铺的按钮文案/尺寸/颜色/布局，无记录时返回默认值
// @Tags Storefront (店面公开接口)
// @Produce json
// @Param shop query string true "店铺域名"
// @Success 200 {object} dto.SettingsResp "展示配置"
// @Failure 400 {object} dto.ActionResp "参数错误"
// @Router /public/settings [get]
func (c *StorefrontController) GetSettings(ctx *gin.Context) {
	var req dto.StorefrontQuery
	if err := ctx.ShouldBindQuery(&req); err != nil {
		fail(ctx, &apperr.ErrValidation{Message: "参数错误: " + err.Error()})
		return
	}

	settings, err := c.storefrontSvc.Settings(ctx.Request.Context(), req.Shop)
	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SettingsResp{
		Success:     true,
		ButtonText:  settings.ButtonText,
		ButtonSize:  settings.ButtonSize,
		ButtonColor: settings.ButtonColor,
		Layout:      settings.Layout,
	})
}
