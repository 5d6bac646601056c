// Package domain file: internal/core/domain/query_models.go
package domain

import (
	"encoding/json"
)

// RowValueKey 是合成行中唯一字段的键：远程函数的完整返回值放在这里。
const RowValueKey = "__value"

// 参数类型标识
const (
	ArgumentLiteral  = "literal"
	ArgumentVariable = "variable"
)

// 字段类型标识
const (
	FieldColumn       = "column"
	FieldRelationship = "relationship"
)

// MutationProcedure 是目前唯一被处理的 mutation 操作类型。
const MutationProcedure = "procedure"

// Argument 是协议层的参数值：要么是字面量，要么是变量引用。
type Argument struct {
	Type  string          `json:"type" binding:"required,oneof=literal variable"`
	Value json.RawMessage `json:"value,omitempty"`
	Name  string          `json:"name,omitempty"`
}

// Literal 构造一个字面量参数。
func Literal(value json.RawMessage) Argument {
	return Argument{Type: ArgumentLiteral, Value: value}
}

// Variable 构造一个变量参数。
func Variable(name string) Argument {
	return Argument{Type: ArgumentVariable, Name: name}
}

// Field 是字段投影中的一项。只有 column 类型会被投影器使用，
// relationship 等其它类型在投影时被丢弃。
type Field struct {
	Type   string `json:"type" binding:"required"`
	Column string `json:"column,omitempty"`

	Relationship string                     `json:"relationship,omitempty"`
	Query        json.RawMessage            `json:"query,omitempty"`
	Arguments    map[string]json.RawMessage `json:"arguments,omitempty"`
}

// ColumnField 构造一个 column 字段。
func ColumnField(column string) Field {
	return Field{Type: FieldColumn, Column: column}
}

// Query 是 QueryRequest 中的查询体。本连接器只读取 Fields。
type Query struct {
	Fields     map[string]Field `json:"fields,omitempty" binding:"omitempty,dive"`
	Limit      *uint32          `json:"limit,omitempty"`
	Offset     *uint32          `json:"offset,omitempty"`
	OrderBy    json.RawMessage  `json:"order_by,omitempty"`
	Where      json.RawMessage  `json:"where,omitempty"`
	Aggregates json.RawMessage  `json:"aggregates,omitempty"`
}

// QueryRequest 是 /query 的请求体。Collection 实际上是远程函数名。
type QueryRequest struct {
	Collection              string                       `json:"collection" binding:"required"`
	Query                   Query                        `json:"query"`
	Arguments               map[string]Argument          `json:"arguments" binding:"omitempty,dive"`
	CollectionRelationships map[string]json.RawMessage   `json:"collection_relationships,omitempty"`
	Variables               []map[string]json.RawMessage `json:"variables,omitempty"`
}

// Row 是结果中的一行。
type Row map[string]any

// RowSet 是查询结果的一个行集。
type RowSet struct {
	Aggregates map[string]any `json:"aggregates"`
	Rows       []Row          `json:"rows"`
}

// QueryResponse 是 /query 的返回体。
type QueryResponse []RowSet

// MutationOperation 是一次 mutation 中的单个操作。
type MutationOperation struct {
	Type      string                     `json:"type" binding:"required"`
	Name      string                     `json:"name"`
	Arguments map[string]json.RawMessage `json:"arguments"`
	Fields    map[string]Field           `json:"fields,omitempty"`
}

// MutationRequest 是 /mutation 的请求体。
type MutationRequest struct {
	Operations              []MutationOperation        `json:"operations" binding:"required,dive"`
	CollectionRelationships map[string]json.RawMessage `json:"collection_relationships,omitempty"`
}

// MutationOperationResults 是单个操作的结果。
type MutationOperationResults struct {
	AffectedRows uint32 `json:"affected_rows"`
	Returning    []Row  `json:"returning"`
}

// MutationResponse 是 /mutation 的返回体。
type MutationResponse struct {
	OperationResults []MutationOperationResults `json:"operation_results"`
}

// ExplainResponse 是 /explain 的返回体 (目前不会被构造)。
type ExplainResponse struct {
	Details map[string]string `json:"details"`
}

// Invocation 是发往远程函数宿主的请求体：函数名加上按位置排好的参数。
type Invocation struct {
	FunctionName string            `json:"functionName"`
	Args         []json.RawMessage `json:"args"`
}
