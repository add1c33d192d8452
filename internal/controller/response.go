package controller

import (
	"errors"

	"github.com/gin-gonic/gin"

	"sizechart_dev_v1/internal/apperr"
	"sizechart_dev_v1/internal/middleware"
)

// fail 统一错误应答
// 删除被拒时附带阻塞商品信息，便于前端提示
func fail(ctx *gin.Context, err error) {
	status := apperr.HTTPStatus(err)

	var hasAssignments *apperr.ErrHasAssignments
	if errors.As(err, &hasAssignments) {
		ctx.JSON(status, gin.H{
			"success":        false,
			"error":          err.Error(),
			"product_count":  hasAssignments.Count,
			"product_titles": hasAssignments.Titles,
		})
		return
	}

	ctx.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

// shopFromRequest 后台接口的店铺标识
// 优先取会话令牌注入的店铺，开发模式下允许 query 传参
func shopFromRequest(ctx *gin.Context) string {
	if shop := middleware.ShopFromContext(ctx); shop != "" {
		return shop
	}
	return ctx.Query("shop")
}
