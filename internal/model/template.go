package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// ==================== 图表类型 ====================

// ChartType 尺码表变体类型
type ChartType string

const (
	ChartTypeTable       ChartType = "table"       // 表格型尺码表
	ChartTypeMeasurement ChartType = "measurement" // 定制量体表单
)

// Valid 是否为合法的变体类型
func (t ChartType) Valid() bool {
	return t == ChartTypeTable || t == ChartTypeMeasurement
}

// ==================== 变体载荷 ====================

// TableChartData 表格型尺码数据
type TableChartData struct {
	Columns []string   `json:"columns"` // 列头，如 ["Size", "Chest", "Waist"]
	Rows    [][]string `json:"rows"`    // 行数据，与列头对齐
	Unit    string     `json:"unit"`    // "cm" | "in"
}

func (d *TableChartData) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

func (d *TableChartData) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return errors.New("type assertion to []byte failed")
		}
	}
	return json.Unmarshal(bytes, d)
}

// MeasurementField 量体表单中的单个字段
type MeasurementField struct {
	Name          string  `json:"name"`                    // 如 "chest/bust"
	Unit          string  `json:"unit"`                    // "cm" | "in"
	MinValue      float64 `json:"min_value"`               // 允许最小值
	MaxValue      float64 `json:"max_value"`               // 允许最大值
	Required      bool    `json:"required"`                // 是否必填
	Enabled       bool    `json:"enabled"`                 // 是否启用
	SortOrder     int     `json:"sort_order"`              // 展示顺序
	Instructions  string  `json:"instructions,omitempty"`  // 自定义量体说明
	GuideImageURL string  `json:"guide_image,omitempty"`   // 量体示意图 URL
}

// MeasurementFieldList 量体字段列表（JSON 存储）
type MeasurementFieldList []MeasurementField

func (l *MeasurementFieldList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

func (l *MeasurementFieldList) Scan(value interface{}) error {
	if value == nil {
		*l = MeasurementFieldList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return errors.New("type assertion to []byte failed")
		}
	}
	return json.Unmarshal(bytes, l)
}

// ==================== 模板 ====================

// Template 尺码表模板
// 一个模板属于一个店铺，(shop, name) 在未删除记录中唯一
type Template struct {
	BaseModel
	Shop        string `gorm:"size:255;index:idx_templates_shop" json:"shop"`
	Name        string `gorm:"size:255" json:"name"`
	Gender      string `gorm:"size:50" json:"gender"`   // male | female | unisex | kids
	Category    string `gorm:"size:100" json:"category"` // 如 "shirt" "pants"
	Description string `gorm:"type:text" json:"description"`
	Active      bool   `gorm:"default:true" json:"active"`

	// 变体判别列 + 各自独立的载荷列
	ChartType ChartType             `gorm:"size:20;index" json:"chart_type"`
	TableData *TableChartData       `gorm:"type:jsonb" json:"table_data,omitempty"`
	Fields    *MeasurementFieldList `gorm:"type:jsonb" json:"fields,omitempty"`
}

func (Template) TableName() string { return "templates" }

// IsTable 是否表格型模板
func (t *Template) IsTable() bool { return t.ChartType == ChartTypeTable }

// GuideImageURLs 收集模板内所有示意图 URL（删除模板时清理存储用）
func (t *Template) GuideImageURLs() []string {
	if t.Fields == nil {
		return nil
	}
	var urls []string
	for _, f := range *t.Fields {
		if f.GuideImageURL != "" {
			urls = append(urls, f.GuideImageURL)
		}
	}
	return urls
}
