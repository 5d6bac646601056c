// Package middleware file: internal/transport/http/middleware/limiter.go
package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// 不活跃客户端的限制器在 idleExpiry 后被回收
const (
	idleExpiry      = 15 * time.Minute
	cleanupInterval = 10 * time.Minute
)

// ClientRateLimiter 按客户端 IP 做令牌桶限流。
type ClientRateLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters *cache.Cache
}

// NewClientRateLimiter 创建限流器。perSecond <= 0 表示不限流。
func NewClientRateLimiter(perSecond float64, burst int) *ClientRateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &ClientRateLimiter{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: cache.New(idleExpiry, cleanupInterval),
	}
}

// Enabled 报告是否启用了限流
func (l *ClientRateLimiter) Enabled() bool {
	return l != nil && l.limit > 0
}

func (l *ClientRateLimiter) limiterFor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if v, ok := l.limiters.Get(key); ok {
		// 访问即续期
		l.limiters.Set(key, v, cache.DefaultExpiration)
		return v.(*rate.Limiter)
	}
	limiter := rate.NewLimiter(l.limit, l.burst)
	l.limiters.Set(key, limiter, cache.DefaultExpiration)
	return limiter
}

// Middleware 返回 gin 中间件
func (l *ClientRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Enabled() {
			c.Next()
			return
		}
		ip := c.ClientIP()
		if !l.limiterFor(ip).Allow() {
			slog.Warn("请求被限流", "ip", ip, "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Message: "too many requests",
				Details: map[string]any{},
			})
			return
		}
		c.Next()
	}
}
