// file: internal/transport/http/router/router.go
package router

import (
	"DenoConnector/internal/core/domain"
	"DenoConnector/internal/core/port"
	"DenoConnector/internal/observe"
	"DenoConnector/internal/transport/http/middleware"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// Dependencies 结构体用于将所有依赖项注入到路由器中
type Dependencies struct {
	Connector          port.Connector
	ServiceTokenSecret string
	RateLimiter        *middleware.ClientRateLimiter
}

// New 创建并配置协议服务器的 HTTP 路由器
func New(deps Dependencies) http.Handler {
	router := gin.New()

	// --- 配置全局中间件 ---
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(observe.PrometheusMiddleware())
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))
	router.Use(middleware.ErrorHandlingMiddleware())

	// 健康检查不需要认证
	router.GET("/health", healthHandler(deps.Connector))

	protocol := router.Group("/")
	protocol.Use(middleware.ServiceToken(deps.ServiceTokenSecret))
	if deps.RateLimiter.Enabled() {
		protocol.Use(deps.RateLimiter.Middleware())
	}
	{
		protocol.GET("/capabilities", capabilitiesHandler(deps.Connector))
		protocol.GET("/schema", schemaHandler(deps.Connector))
		protocol.POST("/query", queryHandler(deps.Connector))
		protocol.POST("/mutation", mutationHandler(deps.Connector))
		protocol.POST("/explain", explainHandler(deps.Connector))
		protocol.GET("/metrics", metricsHandler(deps.Connector))
	}

	return router
}

// =============================================================================
//  处理器
// =============================================================================

func capabilitiesHandler(conn port.Connector) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, conn.Capabilities(c.Request.Context()))
	}
}

func schemaHandler(conn port.Connector) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := conn.Schema(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, doc)
	}
}

func queryHandler(conn port.Connector) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domain.QueryRequest
		if !bindJSON(c, &req) {
			return
		}
		resp, err := conn.Query(c.Request.Context(), req)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func mutationHandler(conn port.Connector) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domain.MutationRequest
		if !bindJSON(c, &req) {
			return
		}
		resp, err := conn.Mutation(c.Request.Context(), req)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func explainHandler(conn port.Connector) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domain.QueryRequest
		if !bindJSON(c, &req) {
			return
		}
		resp, err := conn.Explain(c.Request.Context(), req)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func healthHandler(conn port.Connector) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := conn.HealthCheck(c.Request.Context()); err != nil {
			_ = c.Error(err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func metricsHandler(conn port.Connector) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := conn.FetchMetrics(c.Request.Context()); err != nil {
			_ = c.Error(err)
			return
		}
		observe.Handler().ServeHTTP(c.Writer, c.Request)
	}
}

// bindJSON 解析并校验请求体，失败时附加一个 bind 类型的错误
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return false
	}
	return true
}
