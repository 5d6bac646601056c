// Package domain file: internal/core/domain/schema_models.go
package domain

import "encoding/json"

// CapabilitiesResponse 是 /capabilities 的返回体。
type CapabilitiesResponse struct {
	Versions     string       `json:"versions"`
	Capabilities Capabilities `json:"capabilities"`
}

// Capabilities 列出连接器声明支持的可选特性。
// 字段为 nil 表示不支持（序列化为 null）。
type Capabilities struct {
	Query         *json.RawMessage `json:"query"`
	Explain       *json.RawMessage `json:"explain"`
	Mutations     *json.RawMessage `json:"mutations"`
	Relationships *json.RawMessage `json:"relationships"`
}

// SchemaResponse 是协议定义的 schema 文档。
// 类型描述部分以原始 JSON 保存，连接器本身不解释它们，只负责原样返回。
type SchemaResponse struct {
	ScalarTypes map[string]json.RawMessage `json:"scalar_types" validate:"required"`
	ObjectTypes map[string]json.RawMessage `json:"object_types" validate:"required"`
	Collections []json.RawMessage          `json:"collections" validate:"required"`
	Functions   []FunctionInfo             `json:"functions" validate:"required,dive"`
	Procedures  []ProcedureInfo            `json:"procedures" validate:"required,dive"`
}

// FunctionInfo 描述一个只读函数 (query 入口)。
type FunctionInfo struct {
	Name        string                  `json:"name" validate:"required"`
	Description *string                 `json:"description,omitempty"`
	Arguments   map[string]ArgumentInfo `json:"arguments" validate:"required,dive"`
	ResultType  json.RawMessage         `json:"result_type" validate:"required"`
}

// ProcedureInfo 描述一个可写过程 (mutation 入口)。
type ProcedureInfo struct {
	Name        string                  `json:"name" validate:"required"`
	Description *string                 `json:"description,omitempty"`
	Arguments   map[string]ArgumentInfo `json:"arguments" validate:"required,dive"`
	ResultType  json.RawMessage         `json:"result_type" validate:"required"`
}

// ArgumentInfo 描述函数/过程的一个具名参数。
type ArgumentInfo struct {
	Description *string         `json:"description,omitempty"`
	Type        json.RawMessage `json:"type" validate:"required"`
}
