// Package connector file: internal/service/connector/connector.go
package connector

import (
	"DenoConnector/internal/adapter/functionhost"
	"DenoConnector/internal/config"
	"DenoConnector/internal/core/domain"
	"DenoConnector/internal/core/port"
	"context"
	"net/http"
)

// ProtocolVersion 是声明支持的协议版本范围
const ProtocolVersion = "^0.1.0"

// 编译期断言，确保 Connector 实现了 port.Connector 接口
var _ port.Connector = (*Connector)(nil)

// Connector 是处于 Ready 状态的连接器：持有校验过的配置与运行时状态。
type Connector struct {
	cfg     *config.Configuration
	handler *Handler
}

// New 用校验过的配置与一个远程函数宿主构造连接器。
func New(cfg *config.Configuration, host port.FunctionHost) *Connector {
	return &Connector{
		cfg:     cfg,
		handler: NewHandler(cfg.Positions, host),
	}
}

// Capabilities 静态声明：不支持过滤、排序、聚合、关系与 explain。
func (c *Connector) Capabilities(_ context.Context) domain.CapabilitiesResponse {
	return domain.CapabilitiesResponse{
		Versions:     ProtocolVersion,
		Capabilities: domain.Capabilities{},
	}
}

func (c *Connector) Schema(_ context.Context) (*domain.SchemaResponse, error) {
	return c.cfg.Schema, nil
}

func (c *Connector) Query(ctx context.Context, req domain.QueryRequest) (domain.QueryResponse, error) {
	return c.handler.Invoke(ctx, req.Collection, req.Arguments, req.Query.Fields)
}

func (c *Connector) Mutation(ctx context.Context, req domain.MutationRequest) (*domain.MutationResponse, error) {
	return c.handler.RunMutation(ctx, req.Operations)
}

func (c *Connector) Explain(_ context.Context, _ domain.QueryRequest) (*domain.ExplainResponse, error) {
	return nil, port.ErrNotImplemented
}

func (c *Connector) HealthCheck(_ context.Context) error {
	return port.ErrNotImplemented
}

func (c *Connector) FetchMetrics(_ context.Context) error {
	return port.ErrNotImplemented
}

// Configuration 返回连接器使用的配置 (只读)
func (c *Connector) Configuration() *config.Configuration {
	return c.cfg
}

// =============================================================================
//  生命周期：Unconfigured (RawConfiguration) → Validated (config.Configuration) → Ready (*Connector)
// =============================================================================

// MakeEmptyConfiguration 返回一个所有字段都未设置的原始配置。
func MakeEmptyConfiguration() config.RawConfiguration {
	return config.EmptyRawConfiguration()
}

// UpdateConfiguration 是恒等变换：原样返回传入的配置。
func UpdateConfiguration(_ context.Context, raw config.RawConfiguration) (config.RawConfiguration, error) {
	return raw, nil
}

// ValidateRawConfiguration 读取 schema 并解析 URL。失败时返回 *port.ValidateError。
func ValidateRawConfiguration(ctx context.Context, raw config.RawConfiguration, loader config.SchemaLoader) (*config.Configuration, error) {
	return config.Validate(ctx, raw, loader)
}

// TryInitState 构建运行时状态 (共享的 HTTP 客户端) 并进入 Ready 状态。不会失败。
func TryInitState(cfg *config.Configuration, httpClient *http.Client) *Connector {
	return New(cfg, functionhost.New(cfg.DenoDeploymentURL, httpClient))
}
