// Package middleware file: internal/transport/http/middleware/request_id.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader 是请求 ID 的 HTTP 头
const RequestIDHeader = "X-Request-Id"

// RequestIDKey 是请求 ID 在 gin.Context 中的键
const RequestIDKey = "request_id"

// RequestID 为每个请求分配 ID：沿用调用方给出的值，否则生成一个新的 UUID。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
