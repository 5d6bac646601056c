// Package schema file: internal/schema/positions.go
package schema

import (
	"log/slog"
)

// ArgumentPosition 是 schema 文档中单个参数的位置声明。
type ArgumentPosition struct {
	Position uint32 `json:"position"`
}

// FunctionPositions 是一个函数/过程的参数位置列表。
type FunctionPositions struct {
	Name      string                      `json:"name"`
	Arguments map[string]ArgumentPosition `json:"arguments"`
}

// positionDocument 是 schema 文件的第二种解读方式：只关心参数位置。
type positionDocument struct {
	Functions  []FunctionPositions `json:"functions"`
	Procedures []FunctionPositions `json:"procedures"`
}

// PositionIndex 把 (函数名, 参数名) 映射到参数在远程调用中的序号。
// 构建完成后只读，可被并发请求共享。
type PositionIndex struct {
	functions map[string]map[string]uint32
}

// BuildPositionIndex 合并函数与过程的位置列表。过程排在函数之后，
// 同名条目后者覆盖前者，覆盖时记录一条警告。
func BuildPositionIndex(functions, procedures []FunctionPositions) *PositionIndex {
	idx := &PositionIndex{functions: make(map[string]map[string]uint32, len(functions)+len(procedures))}

	all := make([]FunctionPositions, 0, len(functions)+len(procedures))
	all = append(all, functions...)
	all = append(all, procedures...)

	for _, f := range all {
		args := make(map[string]uint32, len(f.Arguments))
		for name, a := range f.Arguments {
			args[name] = a.Position
		}
		if _, exists := idx.functions[f.Name]; exists {
			slog.Warn("参数位置索引中存在同名函数，后出现的定义将覆盖先前的定义", "function", f.Name)
		}
		idx.functions[f.Name] = args
	}
	return idx
}

// Lookup 返回参数的位置。函数或参数未知时 ok 为 false，这不是错误。
func (p *PositionIndex) Lookup(functionName, argumentName string) (position uint32, ok bool) {
	if p == nil {
		return 0, false
	}
	args, ok := p.functions[functionName]
	if !ok {
		return 0, false
	}
	position, ok = args[argumentName]
	return position, ok
}

// Len 返回索引中的函数数量
func (p *PositionIndex) Len() int {
	if p == nil {
		return 0
	}
	return len(p.functions)
}
