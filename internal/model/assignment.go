package model

// ProductAssignment 模板与商品的关联
// 同一商品同时最多持有一条 table 关联和一条 measurement 关联
// chart_type 冗余自模板，支撑按 (shop, product, chart_type) 的单次索引查询
type ProductAssignment struct {
	BaseModel
	Shop         string    `gorm:"size:255;index:idx_assign_shop_product" json:"shop"`
	TemplateID   int64     `gorm:"index" json:"template_id"`
	ProductID    string    `gorm:"size:64;index:idx_assign_shop_product" json:"product_id"` // 规范化后的纯数字 ID
	ProductTitle string    `gorm:"size:512" json:"product_title"`
	ChartType    ChartType `gorm:"size:20;index" json:"chart_type"`

	Template *Template `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
}

func (ProductAssignment) TableName() string { return "product_assignments" }
