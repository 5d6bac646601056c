// Package port file: internal/core/port/connector.go
package port

import (
	"DenoConnector/internal/core/domain"
	"context"
)

// Connector 定义了协议服务器调用的全部入口。
type Connector interface {
	// Capabilities 返回静态的能力声明
	Capabilities(ctx context.Context) domain.CapabilitiesResponse

	// Schema 返回加载好的 schema 文档
	Schema(ctx context.Context) (*domain.SchemaResponse, error)

	// Query 把一次 query 翻译成一次远程函数调用
	Query(ctx context.Context, req domain.QueryRequest) (domain.QueryResponse, error)

	// Mutation 依次执行每个 procedure 操作
	Mutation(ctx context.Context, req domain.MutationRequest) (*domain.MutationResponse, error)

	// Explain 尚未实现，总是返回 ErrNotImplemented
	Explain(ctx context.Context, req domain.QueryRequest) (*domain.ExplainResponse, error)

	// HealthCheck 尚未实现，总是返回 ErrNotImplemented
	HealthCheck(ctx context.Context) error

	// FetchMetrics 尚未实现，总是返回 ErrNotImplemented
	FetchMetrics(ctx context.Context) error
}

// FunctionHost 是远程函数宿主的调用能力。
// 返回值是解码后的任意 JSON 值 (map[string]any, []any, string, json.Number, bool 或 nil)。
type FunctionHost interface {
	Invoke(ctx context.Context, inv domain.Invocation) (any, error)
}
