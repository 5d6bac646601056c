// Package observe file: internal/observe/logging.go
package observe

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel 把配置中的级别字符串转换为 slog.Level，无法识别时为 INFO。
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// InitLogger 初始化全局的结构化日志记录器。
// 它应该在 main 函数的早期被调用。
func InitLogger(levelStr string) {
	SetupLogger(os.Stdout, levelStr)
}

// SetupLogger 以 JSON 格式把日志写到 w，并设置为全局默认 logger。
func SetupLogger(w io.Writer, levelStr string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     ParseLevel(levelStr),
		AddSource: true,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
