package model

import "gorm.io/datatypes"

// DraftOrderLog 定制草稿订单创建记录
// 保留平台原始响应便于排查，由 GDPR 清除一并删除
type DraftOrderLog struct {
	BaseModel
	Shop           string            `gorm:"size:255;index" json:"shop"`
	ProductID      string            `gorm:"size:64" json:"product_id"`
	VariantID      string            `gorm:"size:64" json:"variant_id"`
	Quantity       int               `json:"quantity"`
	DraftOrderID   int64             `gorm:"index" json:"draft_order_id"`
	DraftOrderName string            `gorm:"size:64" json:"draft_order_name"`
	InvoiceURL     string            `gorm:"size:1024" json:"invoice_url"`
	Measurements   datatypes.JSONMap `gorm:"type:jsonb" json:"measurements"`
	RawResponse    datatypes.JSON    `gorm:"type:jsonb" json:"-"`
}

func (DraftOrderLog) TableName() string { return "draft_order_logs" }
