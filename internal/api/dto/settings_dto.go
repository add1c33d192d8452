package dto

// SettingsUpdateReq 店铺配置更新请求（指针字段缺省不更新）
type SettingsUpdateReq struct {
	ButtonText  *string `json:"button_text"`
	ButtonSize  *string `json:"button_size"`
	ButtonColor *string `json:"button_color"`
	Layout      *string `json:"layout"`
	AppURL      *string `json:"app_url"`
}
