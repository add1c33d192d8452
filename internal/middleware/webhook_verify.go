package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// webhook 签名头
const headerWebhookHmac = "X-Shopify-Hmac-Sha256"

// WebhookVerify 平台 webhook 签名校验中间件
// 对原始请求体做 HMAC-SHA256，再与签名头比对
// 校验后把请求体放回，供后续 handler 读取
func WebhookVerify(appSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		signature := c.GetHeader(headerWebhookHmac)
		if signature == "" || !verifyHmac(body, signature, appSecret) {
			log.Printf("[Webhook] 签名校验失败: topic=%s", c.GetHeader("X-Shopify-Topic"))
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Next()
	}
}

func verifyHmac(body []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
