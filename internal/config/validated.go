// Package config file: internal/config/validated.go
package config

import (
	"DenoConnector/internal/core/domain"
	"DenoConnector/internal/core/port"
	"DenoConnector/internal/schema"
	"context"
	"errors"
	"fmt"
	"net/url"
)

// 校验错误中使用的字段路径
const (
	PathSchema            = "/schema.json"
	PathDenoDeploymentURL = "deno_deployment_url"
)

// Configuration 是校验通过的、不可变的连接器配置。
// 一旦构建完成就只被读取，可在所有请求间共享。
type Configuration struct {
	DenoDeploymentURL *url.URL
	Schema            *domain.SchemaResponse
	Positions         *schema.PositionIndex
	Source            *FunctionSource
}

// SchemaLoader 是 Validate 需要的 schema 读取能力，由 *schema.Loader 实现。
type SchemaLoader interface {
	Load(ctx context.Context, location string) (*domain.SchemaResponse, *schema.PositionIndex, error)
}

// Validate 把 RawConfiguration 变成 Configuration。
// 所有失败项会被汇总进一个 *port.ValidateError；失败时不会返回部分结果。
func Validate(ctx context.Context, raw RawConfiguration, loader SchemaLoader) (*Configuration, error) {
	verr := &port.ValidateError{}

	location := raw.SchemaLocationOrDefault()
	doc, positions, err := loader.Load(ctx, location)
	if err != nil {
		verr.Add(PathSchema, fmt.Sprintf("Couldn't read schema from %s: %v", location, err))
	}

	endpoint, err := parseDeploymentURL(raw.DenoDeploymentURLOrDefault())
	if err != nil {
		verr.Add(PathDenoDeploymentURL, "Couldn't parse deno deployment url.")
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return &Configuration{
		DenoDeploymentURL: endpoint,
		Schema:            doc,
		Positions:         positions,
		Source:            raw.TypescriptSource,
	}, nil
}

// parseDeploymentURL 只接受带协议和主机的绝对 URL。
func parseDeploymentURL(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.New("url 缺少协议或主机")
	}
	return u, nil
}
