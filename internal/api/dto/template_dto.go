package dto

import "sizechart_dev_v1/internal/model"

// ==================== 请求 DTO ====================

// TemplateActionReq 模板操作统一入口
// intent 决定分发: create | update | toggle-active | delete | assign-products
type TemplateActionReq struct {
	Intent     string   `form:"intent" json:"intent" binding:"required"`
	TemplateID int64    `form:"template_id" json:"template_id"`
	ProductIDs []string `form:"product_ids" json:"product_ids"`

	Name        string `form:"name" json:"name"`
	Gender      string `form:"gender" json:"gender"`
	Category    string `form:"category" json:"category"`
	Description string `form:"description" json:"description"`
	ChartType   string `form:"chart_type" json:"chart_type"`

	// 变体载荷，二选一；multipart 提交时为 JSON 字符串
	TableData string `form:"table_data" json:"table_data"`
	Fields    string `form:"fields" json:"fields"`
}

// TemplateListReq 模板列表查询
type TemplateListReq struct {
	Gender   string `form:"gender"`
	Category string `form:"category"`
	Active   *bool  `form:"active"`
	Keyword  string `form:"keyword"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}

// ==================== 响应 DTO ====================

// ActionResp 操作类接口的统一应答
type ActionResp struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// TemplateListResp 模板列表应答
type TemplateListResp struct {
	Success              bool             `json:"success"`
	TableTemplates       []model.Template `json:"table_templates"`
	MeasurementTemplates []model.Template `json:"measurement_templates"`
	Total                int64            `json:"total"`
}

// DeleteBlockedResp 删除被拒时的附加信息
type DeleteBlockedResp struct {
	Success       bool     `json:"success"`
	Error         string   `json:"error"`
	ProductCount  int64    `json:"product_count"`
	ProductTitles []string `json:"product_titles"`
}
