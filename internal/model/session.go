package model

import "time"

// Session 店铺的平台授权凭证
// OAuth 回调写入；定制下单时取同店铺最新且未过期的一条
// ExpiresAt 为空表示离线 Token，永不过期
type Session struct {
	BaseModel
	Shop        string     `gorm:"size:255;index" json:"shop"`
	AccessToken string     `gorm:"size:512" json:"-"`
	Scope       string     `gorm:"size:512" json:"scope"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

func (Session) TableName() string { return "sessions" }

// Expired 凭证是否已过期
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && s.ExpiresAt.Before(now)
}
