// Package observe 暴露 Prometheus 指标、日志初始化与调试端点
package observe

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 指标定义
var (
	TotalReq = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "deno_connector_requests_total",
		Help: "协议请求总数",
	})
	FailReq = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "deno_connector_requests_failed",
		Help: "返回 4xx/5xx 的协议请求数",
	})

	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "deno_connector_http_request_duration_seconds",
		Help:    "协议请求处理耗时",
		Buckets: prometheus.DefBuckets,
	}, []string{"path", "method", "code"})

	functionInvocations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "deno_connector_function_invocations_total",
		Help: "远程函数调用次数，按函数名与结果状态区分",
	}, []string{"function", "status"})

	functionInvocationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "deno_connector_function_invocation_duration_seconds",
		Help:    "远程函数调用耗时",
		Buckets: prometheus.DefBuckets,
	}, []string{"function"})
)

// Register 必须在 main 调用一次
func Register() {
	prometheus.MustRegister(TotalReq, FailReq, httpRequestDuration, functionInvocations, functionInvocationDuration)
}

// Handler 返回 HTTP 处理器
func Handler() http.Handler { return promhttp.Handler() }

// ObserveInvocation 记录一次远程函数调用。status 是 HTTP 状态码或 "transport_error"。
func ObserveInvocation(function, status string, elapsed time.Duration) {
	functionInvocations.WithLabelValues(function, status).Inc()
	functionInvocationDuration.WithLabelValues(function).Observe(elapsed.Seconds())
}

// PrometheusMiddleware 记录每个请求的耗时与结果。
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		code := c.Writer.Status()
		TotalReq.Inc()
		if code >= http.StatusBadRequest {
			FailReq.Inc()
		}
		httpRequestDuration.WithLabelValues(path, c.Request.Method, strconv.Itoa(code)).Observe(time.Since(start).Seconds())
	}
}
