// Package config 负责集中式配置加载：
// 服务器运行参数 (viper) 以及连接器自身的 RawConfiguration / Configuration。
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// 默认值
const (
	DefaultSchemaLocation    = "/schema.json"
	DefaultDenoDeploymentURL = "http://localhost:8000"
)

// FunctionSource 描述远程函数代码的来源：一段内联源码，或者一个 URL。
// 核心流程不使用它，只原样携带。
type FunctionSource struct {
	Static string
	URL    string
}

func (s FunctionSource) MarshalJSON() ([]byte, error) {
	if s.URL != "" {
		return json.Marshal(struct {
			URL string `json:"url"`
		}{s.URL})
	}
	return json.Marshal(s.Static)
}

func (s *FunctionSource) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &s.Static)
	}
	var v struct {
		URL *string `json:"url"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.URL == nil {
		return errors.New("typescript_source 必须是字符串或 {\"url\": ...}")
	}
	s.URL = *v.URL
	return nil
}

// RawConfiguration 是用户提供的、未经校验的连接器配置。
type RawConfiguration struct {
	TypescriptSource  *FunctionSource `json:"typescript_source"`
	SchemaLocation    *string         `json:"schema_location"`
	DenoDeploymentURL *string         `json:"deno_deployment_url"`
}

// EmptyRawConfiguration 返回所有字段都未设置的配置。
func EmptyRawConfiguration() RawConfiguration {
	return RawConfiguration{}
}

// SchemaLocationOrDefault 返回 schema 位置，未设置时使用默认值。
func (r RawConfiguration) SchemaLocationOrDefault() string {
	if r.SchemaLocation != nil {
		return *r.SchemaLocation
	}
	return DefaultSchemaLocation
}

// DenoDeploymentURLOrDefault 返回远程函数宿主地址，未设置时使用默认值。
func (r RawConfiguration) DenoDeploymentURLOrDefault() string {
	if r.DenoDeploymentURL != nil {
		return *r.DenoDeploymentURL
	}
	return DefaultDenoDeploymentURL
}

// ReadRawConfiguration 从 JSON 文件读取 RawConfiguration。path 为空时返回空配置。
func ReadRawConfiguration(path string) (RawConfiguration, error) {
	if path == "" {
		return EmptyRawConfiguration(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return RawConfiguration{}, fmt.Errorf("读取连接器配置文件 '%s' 失败: %w", path, err)
	}
	var raw RawConfiguration
	if err := json.Unmarshal(data, &raw); err != nil {
		return RawConfiguration{}, fmt.Errorf("解析连接器配置文件 '%s' 失败: %w", path, err)
	}
	return raw, nil
}
