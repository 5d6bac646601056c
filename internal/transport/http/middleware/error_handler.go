// Package middleware file: internal/transport/http/middleware/error_handler.go
package middleware

import (
	"DenoConnector/internal/core/port"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse 是协议约定的错误返回体
type ErrorResponse struct {
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

// ErrorHandlingMiddleware 是一个Gin中间件，用于集中处理错误。
// 处理器通过 c.Error(err) 附加错误，这里按错误类别映射为 HTTP 状态码。
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		// 只处理最后一个错误，因为它通常是根本原因
		last := c.Errors.Last()
		err := last.Err
		status, body := classify(err)
		if last.IsType(gin.ErrorTypeBind) && status == http.StatusInternalServerError {
			status, body = http.StatusBadRequest, ErrorResponse{Message: "无法解析请求体: " + err.Error(), Details: map[string]any{}}
		}
		if status >= http.StatusInternalServerError {
			slog.Error("请求处理失败", "path", c.FullPath(), "error", err, "request_id", c.GetString(RequestIDKey))
		} else {
			slog.Info("请求被拒绝", "path", c.FullPath(), "status", status, "error", err)
		}
		c.AbortWithStatusJSON(status, body)
	}
}

func classify(err error) (int, ErrorResponse) {
	details := map[string]any{}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ErrorResponse{Message: "请求参数验证失败", Details: map[string]any{"validation": ve.Error()}}
	}

	var cerr *port.ConnectorError
	if errors.As(err, &cerr) {
		msg := cerr.Message
		if msg == "" {
			msg = cerr.Error()
		}
		switch cerr.Kind {
		case port.KindInvalidRequest:
			return http.StatusBadRequest, ErrorResponse{Message: msg, Details: details}
		case port.KindUnsupportedOperation:
			return http.StatusNotImplemented, ErrorResponse{Message: msg, Details: details}
		default:
			return http.StatusInternalServerError, ErrorResponse{Message: "internal error", Details: map[string]any{"cause": cerr.Error()}}
		}
	}

	// ConnectorError 先于 JSON 错误判断：远程返回值解析失败包着 json 错误，但属于 other
	var se *json.SyntaxError
	var te *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &te) {
		return http.StatusBadRequest, ErrorResponse{Message: "请求体不是合法的 JSON: " + err.Error(), Details: details}
	}

	if errors.Is(err, port.ErrNotImplemented) {
		return http.StatusNotImplemented, ErrorResponse{Message: err.Error(), Details: details}
	}

	return http.StatusInternalServerError, ErrorResponse{Message: "internal error", Details: details}
}
