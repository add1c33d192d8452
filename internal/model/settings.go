package model

// ==================== 默认值 ====================

const (
	DefaultButtonText  = "Size Guide"
	DefaultButtonSize  = "medium"
	DefaultButtonColor = "#000000"
	DefaultLayout      = "inline"
)

// ShopSettings 店铺级展示配置
// 每个店铺至多一条记录，没有记录时按默认值返回
type ShopSettings struct {
	BaseModel
	Shop        string `gorm:"size:255;uniqueIndex" json:"shop"`
	ButtonText  string `gorm:"size:100" json:"button_text"`
	ButtonSize  string `gorm:"size:20" json:"button_size"`   // small | medium | large
	ButtonColor string `gorm:"size:20" json:"button_color"`  // 十六进制色值
	Layout      string `gorm:"size:20" json:"layout"`        // inline | modal
	AppURL      string `gorm:"size:512" json:"app_url"`      // 手动指定的应用 URL（可选，优先于自动探测）
}

func (ShopSettings) TableName() string { return "shop_settings" }

// DefaultSettings 返回某店铺的默认配置（不落库）
func DefaultSettings(shop string) *ShopSettings {
	return &ShopSettings{
		Shop:        shop,
		ButtonText:  DefaultButtonText,
		ButtonSize:  DefaultButtonSize,
		ButtonColor: DefaultButtonColor,
		Layout:      DefaultLayout,
	}
}
