package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"sizechart_dev_v1/internal/api/dto"
	"sizechart_dev_v1/internal/apperr"
	"sizechart_dev_v1/internal/model"
	"sizechart_dev_v1/internal/service"
)

type TemplateController struct {
	templateSvc   *service.TemplateService
	assignmentSvc *service.AssignmentService
}

func NewTemplateController(templateSvc *service.TemplateService, assignmentSvc *service.AssignmentService) *TemplateController {
	return &TemplateController{
		templateSvc:   templateSvc,
		assignmentSvc: assignmentSvc,
	}
}

// GetTemplateList 获取模板列表
// @Summary 获取模板列表
// @Description 按变体类型分组返回，支持性别/分类/启用状态/关键词筛选，创建时间倒序
// @Tags Template (模板管理)
// @Produce json
// @Param gender query string false "性别筛选"
// @Param category query string false "分类筛选"
// @Param active query bool false "启用状态筛选"
// @Param keyword query string false "名称关键词"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} dto.TemplateListResp "模板列表"
// @Failure 400 {object} dto.ActionResp "参数错误"
// @Router /api/templates [get]
func (c *TemplateController) GetTemplateList(ctx *gin.Context) {
	var req dto.TemplateListReq
	if err := ctx.ShouldBindQuery(&req); err != nil {
		fail(ctx, &apperr.ErrValidation{Message: "参数错误: " + err.Error()})
		return
	}

	listing, err := c.templateSvc.List(ctx.Request.Context(), shopFromRequest(ctx), service.ListFilter{
		Gender:   req.Gender,
		Category: req.Category,
		Active:   req.Active,
		Keyword:  req.Keyword,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.TemplateListResp{
		Success:              true,
		TableTemplates:       listing.TableTemplates,
		MeasurementTemplates: listing.MeasurementTemplates,
		Total:                listing.Total,
	})
}

// GetTemplateDetail 获取模板详情
// @Summary 获取模板详情
// @Tags Template (模板管理)
// @Produce json
// @Param id path int true "模板ID"
// @Success 200 {object} dto.ActionResp "模板详情"
// @Failure 404 {object} dto.ActionResp "模板不存在"
// @Router /api/templates/{id} [get]
func (c *TemplateController) GetTemplateDetail(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		fail(ctx, &apperr.ErrValidation{Message: "无效的模板ID"})
		return
	}

	tpl, err := c.templateSvc.Get(ctx.Request.Context(), shopFromRequest(ctx), id)
	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ActionResp{Success: true, Data: tpl})
}

// GetTemplateAssignments 获取模板的商品关联
// @Summary 获取模板的商品关联
// @Tags Template (模板管理)
// @Produce json
// @Param id path int true "模板ID"
// @Success 200 {object} dto.ActionResp "关联列表"
// @Router /api/templates/{id}/assignments [get]
func (c *TemplateController) GetTemplateAssignments(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		fail(ctx, &apperr.ErrValidation{Message: "无效的模板ID"})
		return
	}

	assigns, err := c.assignmentSvc.ListByTemplate(ctx.Request.Context(), shopFromRequest(ctx), id)
	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ActionResp{Success: true, Data: assigns})
}

// HandleAction 模板操作统一入口
// @Summary 模板操作统一入口
// @Description 按 intent 分发: create | update | toggle-active | delete | assign-products；create/update 支持 multipart 携带量体示意图
// @Tags Template (模板管理)
// @Accept json
// @Accept mpfd
// @Produce json
// @Param intent formData string true "操作类型"
// @Success 200 {object} dto.ActionResp "操作结果"
// @Failure 400 {object} dto.ActionResp "参数错误"
// @Failure 409 {object} dto.DeleteBlockedResp "删除被拒"
// @Router /api/templates/action [post]
func (c *TemplateController) HandleAction(ctx *gin.Context) {
	var req dto.TemplateActionReq

	contentType := ctx.ContentType()
	if strings.HasPrefix(contentType, "multipart/form-data") || contentType == "application/x-www-form-urlencoded" {
		if err := ctx.ShouldBind(&req); err != nil {
			fail(ctx, &apperr.ErrValidation{Message: "参数错误: " + err.Error()})
			return
		}
	} else {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			fail(ctx, &apperr.ErrValidation{Message: "参数错误: " + err.Error()})
			return
		}
	}

	shop := shopFromRequest(ctx)

	switch req.Intent {
	case "create":
		c.handleCreate(ctx, shop, &req)
	case "update":
		c.handleUpdate(ctx, shop, &req)
	case "toggle-active":
		c.handleToggleActive(ctx, shop, &req)
	case "delete":
		c.handleDelete(ctx, shop, &req)
	case "assign-products":
		c.handleAssignProducts(ctx, shop, &req)
	default:
		fail(ctx, &apperr.ErrValidation{Message: "未知的操作类型: " + req.Intent})
	}
}

// ==================== intent 分发 ====================

func (c *TemplateController) handleCreate(ctx *gin.Context, shop string, req *dto.TemplateActionReq) {
	input, err := buildTemplateInput(req)
	if err != nil {
		fail(ctx, err)
		return
	}

	uploads, err := collectGuideImages(ctx)
	if err != nil {
		fail(ctx, err)
		return
	}

	tpl, err := c.templateSvc.Create(ctx.Request.Context(), shop, input, uploads)
	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ActionResp{Success: true, Data: tpl})
}

func (c *TemplateController) handleUpdate(ctx *gin.Context, shop string, req *dto.TemplateActionReq) {
	if req.TemplateID <= 0 {
		fail(ctx, &apperr.ErrValidation{Message: "缺少模板ID"})
		return
	}

	input, err := buildTemplateInput(req)
	if err != nil {
		fail(ctx, err)
		return
	}

	uploads, err := collectGuideImages(ctx)
	if err != nil {
		fail(ctx, err)
		return
	}

	tpl, err := c.templateSvc.Update(ctx.Request.Context(), shop, req.TemplateID, input, uploads)
	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ActionResp{Success: true, Data: tpl})
}

func (c *TemplateController) handleToggleActive(ctx *gin.Context, shop string, req *dto.TemplateActionReq) {
	if req.TemplateID <= 0 {
		fail(ctx, &apperr.ErrValidation{Message: "缺少模板ID"})
		return
	}

	tpl, err := c.templateSvc.ToggleActive(ctx.Request.Context(), shop, req.TemplateID)
	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ActionResp{Success: true, Data: tpl})
}

func (c *TemplateController) handleDelete(ctx *gin.Context, shop string, req *dto.TemplateActionReq) {
	if req.TemplateID <= 0 {
		fail(ctx, &apperr.ErrValidation{Message: "缺少模板ID"})
		return
	}

	if err := c.templateSvc.Delete(ctx.Request.Context(), shop, req.TemplateID); err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ActionResp{Success: true})
}

func (c *TemplateController) handleAssignProducts(ctx *gin.Context, shop string, req *dto.TemplateActionReq) {
	if req.TemplateID <= 0 {
		fail(ctx, &apperr.ErrValidation{Message: "缺少模板ID"})
		return
	}

	result, err := c.assignmentSvc.Reconcile(ctx.Request.Context(), shop, req.TemplateID, req.ProductIDs)
	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ActionResp{Success: true, Data: result})
}

// ==================== 入参组装 ====================

// buildTemplateInput 把表单/JSON 载荷组装为服务层入参
func buildTemplateInput(req *dto.TemplateActionReq) (*service.TemplateInput, error) {
	input := &service.TemplateInput{
		Name:        req.Name,
		Gender:      req.Gender,
		Category:    req.Category,
		Description: req.Description,
		ChartType:   model.ChartType(req.ChartType),
	}

	if req.TableData != "" {
		var tableData model.TableChartData
		if err := json.Unmarshal([]byte(req.TableData), &tableData); err != nil {
			return nil, &apperr.ErrValidation{Message: "表格数据格式错误: " + err.Error()}
		}
		input.TableData = &tableData
	}

	if req.Fields != "" {
		var fields model.MeasurementFieldList
		if err := json.Unmarshal([]byte(req.Fields), &fields); err != nil {
			return nil, &apperr.ErrValidation{Message: "量体字段格式错误: " + err.Error()}
		}
		input.Fields = &fields
	}

	return input, nil
}

// collectGuideImages 收集 multipart 中的量体示意图
// 文件字段名形如 guide_image_0，下标对应字段列表位置
func collectGuideImages(ctx *gin.Context) ([]service.GuideImageUpload, error) {
	if !strings.HasPrefix(ctx.ContentType(), "multipart/form-data") {
		return nil, nil
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		return nil, nil
	}

	var uploads []service.GuideImageUpload
	for key, headers := range form.File {
		if !strings.HasPrefix(key, "guide_image_") || len(headers) == 0 {
			continue
		}
		index, err := strconv.Atoi(strings.TrimPrefix(key, "guide_image_"))
		if err != nil {
			continue
		}

		file, err := headers[0].Open()
		if err != nil {
			return nil, &apperr.ErrValidation{Message: "示意图读取失败: " + err.Error()}
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, &apperr.ErrValidation{Message: "示意图读取失败: " + err.Error()}
		}

		uploads = append(uploads, service.GuideImageUpload{
			FieldIndex:  index,
			Filename:    headers[0].Filename,
			ContentType: headers[0].Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return uploads, nil
}
