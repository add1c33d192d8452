package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"sizechart_dev_v1/pkg/shopid"
)

// ==================== 配置 ====================

// SessionAuthConfig 嵌入式应用会话令牌配置
// Shopify App Bridge 的 session token 由应用密钥 HS256 签名
type SessionAuthConfig struct {
	AppSecret string // 应用 API Secret，签名密钥
	AppKey    string // 应用 API Key，aud 校验用
}

// 全局配置
var sessionAuthConfig = &SessionAuthConfig{}

// SetSessionAuthConfig 设置会话认证配置
func SetSessionAuthConfig(cfg *SessionAuthConfig) {
	sessionAuthConfig = cfg
}

// ==================== Claims 定义 ====================

// SessionClaims 平台会话令牌声明
// dest 形如 https://{shop}.myshopify.com
type SessionClaims struct {
	Dest string `json:"dest"`
	jwt.RegisteredClaims
}

// ==================== Token 解析 ====================

// ParseSessionToken 解析并校验会话令牌，返回店铺域名
func ParseSessionToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(sessionAuthConfig.AppSecret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}
	if sessionAuthConfig.AppKey != "" {
		audOK := false
		for _, aud := range claims.Audience {
			if aud == sessionAuthConfig.AppKey {
				audOK = true
				break
			}
		}
		if !audOK {
			return "", errors.New("audience mismatch")
		}
	}
	if claims.Dest == "" {
		return "", errors.New("missing dest claim")
	}
	return shopid.NormalizeShop(claims.Dest), nil
}

// ==================== Gin 中间件 ====================

// Context Keys
const (
	ContextKeyShop = "shop"
)

// SessionAuth 后台接口认证中间件
// 校验通过后把店铺域名注入 Context
func SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "未提供认证信息",
			})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "认证格式错误，应为 Bearer {token}",
			})
			c.Abort()
			return
		}

		shop, err := ParseSessionToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "会话令牌无效或已过期",
			})
			c.Abort()
			return
		}

		c.Set(ContextKeyShop, shop)
		c.Next()
	}
}

// ShopFromContext 从 Context 取店铺域名
func ShopFromContext(c *gin.Context) string {
	if shop, ok := c.Get(ContextKeyShop); ok {
		if s, ok := shop.(string); ok {
			return s
		}
	}
	return ""
}
