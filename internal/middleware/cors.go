package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PublicCORS 店面公开接口的跨域中间件
// 通配放行，预检请求直接应答 204
// 错误路径也要带上这些头，店面脚本才能解析应答体
func PublicCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
