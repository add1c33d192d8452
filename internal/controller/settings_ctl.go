package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sizechart_dev_v1/internal/api/dto"
	"sizechart_dev_v1/internal/apperr"
	"sizechart_dev_v1/internal/service"
)

type SettingsController struct {
	settingsSvc *service.SettingsService
}

func NewSettingsController(settingsSvc *service.SettingsService) *SettingsController {
	return &SettingsController{settingsSvc: settingsSvc}
}

// GetSettings 获取店铺配置
// @Summary 获取店铺配置
// @Tags Settings (店铺配置)
// @Produce json
// @Success 200 {object} dto.ActionResp "店铺配置"
// @Router /api/settings [get]
func (c *SettingsController) GetSettings(ctx *gin.Context) {
	settings, err := c.settingsSvc.Get(ctx.Request.Context(), shopFromRequest(ctx))
	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ActionResp{Success: true, Data: settings})
}

// UpdateSettings 更新店铺配置
// @Summary 更新店铺配置
// @Description 缺省字段不更新，首次写入以默认值为底
// @Tags Settings (店铺配置)
// @Accept json
// @Produce json
// @Param request body dto.SettingsUpdateReq true "更新参数"
// @Success 200 {object} dto.ActionResp "更新后的配置"
// @Failure 400 {object} dto.ActionResp "参数错误"
// @Router /api/settings [put]
func (c *SettingsController) UpdateSettings(ctx *gin.Context) {
	var req dto.SettingsUpdateReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		fail(ctx, &apperr.ErrValidation{Message: "参数错误: " + err.Error()})
		return
	}

	settings, err := c.settingsSvc.Upsert(ctx.Request.Context(), shopFromRequest(ctx), &service.SettingsInput{
		ButtonText:  req.ButtonText,
		ButtonSize:  req.ButtonSize,
		ButtonColor: req.ButtonColor,
		Layout:      req.Layout,
		AppURL:      req.AppURL,
	})
	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ActionResp{Success: true, Data: settings})
}
