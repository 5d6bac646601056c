// Package connector file: internal/service/connector/projection.go
package connector

import "DenoConnector/internal/core/domain"

// Project 把 JSON 值限制到请求的字段集合上。
//
//   - fields 为 nil：原样返回。
//   - 对象：只保留请求的输出键；column 字段取源对象中的同名值，缺失时为 null；
//     非 column 字段被丢弃。
//   - 数组：对每个元素递归投影，保持顺序与长度。
//   - 标量：原样返回。
func Project(value any, fields map[string]domain.Field) any {
	if fields == nil {
		return value
	}
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(fields))
		for key, field := range fields {
			if field.Type != domain.FieldColumn {
				continue
			}
			out[key] = v[field.Column] // 缺失时为 nil，即 JSON null
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = Project(elem, fields)
		}
		return out
	default:
		return value
	}
}
