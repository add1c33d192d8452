package dto

// ==================== 公开接口 DTO ====================

// StorefrontQuery 店面公开接口的通用查询参数
type StorefrontQuery struct {
	Shop      string `form:"shop" binding:"required"`
	ProductID string `form:"productId"`
}

// AppURLResp 应用 URL 探测应答
type AppURLResp struct {
	Success  bool   `json:"success"`
	AppURL   string `json:"appUrl"`
	Strategy string `json:"strategy,omitempty"`
	Detected bool   `json:"detected"`
}

// ChartTypesResp 商品可用尺码表类型应答
type ChartTypesResp struct {
	Success           bool `json:"success"`
	HasTableTemplate  bool `json:"hasTableTemplate"`
	HasCustomTemplate bool `json:"hasCustomTemplate"`
}

// SettingsResp 展示配置应答
type SettingsResp struct {
	Success     bool   `json:"success"`
	ButtonText  string `json:"buttonText"`
	ButtonSize  string `json:"buttonSize"`
	ButtonColor string `json:"buttonColor"`
	Layout      string `json:"layout"`
}

// ==================== 定制下单 DTO ====================

// DraftOrderReq 定制下单请求
type DraftOrderReq struct {
	ProductID    string            `json:"productId" binding:"required"`
	VariantID    string            `json:"variantId"`
	Quantity     int               `json:"quantity"`
	Measurements map[string]string `json:"measurements" binding:"required"`
}

// DraftOrderResp 定制下单应答
type DraftOrderResp struct {
	Success        bool   `json:"success"`
	InvoiceURL     string `json:"invoiceUrl,omitempty"`
	DraftOrderID   int64  `json:"draftOrderId,omitempty"`
	DraftOrderName string `json:"draftOrderName,omitempty"`
	Error          string `json:"error,omitempty"`
}
