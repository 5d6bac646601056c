// Package middleware file: internal/transport/http/middleware/auth.go
package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ServiceToken 要求请求携带 "Authorization: Bearer <secret>"。secret 为空时不做检查。
func ServiceToken(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			slog.Warn("ServiceToken: 访问被拒绝", "path", c.Request.URL.Path, "ip", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Internal error",
				Details: map[string]any{"cause": "Bearer token does not match."},
			})
			return
		}
		c.Next()
	}
}
