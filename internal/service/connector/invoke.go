// Package connector 实现连接器核心：把协议层的 query/mutation
// 翻译为一次远程函数调用，并按字段投影重塑返回值。
package connector

import (
	"DenoConnector/internal/core/domain"
	"DenoConnector/internal/core/port"
	"DenoConnector/internal/schema"
	"cmp"
	"context"
	"encoding/json"
	"slices"
)

// namedValue 是解析后的一个参数
type namedValue struct {
	name     string
	value    json.RawMessage
	position uint32
	known    bool
}

// Handler 是调用处理器。它持有只读的位置索引与共享的远程函数宿主客户端，
// 可被并发请求安全复用。
type Handler struct {
	positions *schema.PositionIndex
	host      port.FunctionHost
}

// NewHandler 创建调用处理器
func NewHandler(positions *schema.PositionIndex, host port.FunctionHost) *Handler {
	return &Handler{positions: positions, host: host}
}

// Invoke 调用名为 functionName 的远程函数。
// 结果总是恰好一个行集、一行，远程返回值整体放在 domain.RowValueKey 下。
func (h *Handler) Invoke(ctx context.Context, functionName string, arguments map[string]domain.Argument, fields map[string]domain.Field) (domain.QueryResponse, error) {
	args, err := h.orderArguments(functionName, arguments)
	if err != nil {
		return nil, err
	}

	result, err := h.host.Invoke(ctx, domain.Invocation{FunctionName: functionName, Args: args})
	if err != nil {
		return nil, err
	}

	row := domain.Row{domain.RowValueKey: Project(result, fields)}
	return domain.QueryResponse{{Aggregates: nil, Rows: []domain.Row{row}}}, nil
}

// orderArguments 解析所有参数并按声明的位置排序，只保留值。
// 任何一个变量参数都会让整个调用失败；没有位置的参数排在最前，
// 相互之间保持按参数名排列的原始顺序。
func (h *Handler) orderArguments(functionName string, arguments map[string]domain.Argument) ([]json.RawMessage, error) {
	names := make([]string, 0, len(arguments))
	for name := range arguments {
		names = append(names, name)
	}
	slices.Sort(names)

	resolved := make([]namedValue, 0, len(names))
	for _, name := range names {
		value, err := evalArgument(arguments[name])
		if err != nil {
			return nil, err
		}
		pos, ok := h.positions.Lookup(functionName, name)
		resolved = append(resolved, namedValue{name: name, value: value, position: pos, known: ok})
	}

	slices.SortStableFunc(resolved, comparePosition)

	args := make([]json.RawMessage, len(resolved))
	for i, nv := range resolved {
		args[i] = nv.value
	}
	return args, nil
}

// comparePosition 是可选序号上的全序：未知位置小于任何已知位置。
func comparePosition(a, b namedValue) int {
	switch {
	case !a.known && !b.known:
		return 0
	case !a.known:
		return -1
	case !b.known:
		return 1
	default:
		return cmp.Compare(a.position, b.position)
	}
}

func evalArgument(arg domain.Argument) (json.RawMessage, error) {
	switch arg.Type {
	case domain.ArgumentLiteral:
		if len(arg.Value) == 0 {
			return json.RawMessage("null"), nil
		}
		return arg.Value, nil
	case domain.ArgumentVariable:
		return nil, port.UnsupportedOperation("Variables in arguments not supported")
	default:
		return nil, port.UnsupportedOperation("unknown argument type: " + arg.Type)
	}
}
