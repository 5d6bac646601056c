// Package connector file: internal/service/connector/mutation.go
package connector

import (
	"DenoConnector/internal/core/domain"
	"context"
	"log/slog"
)

// RunMutation 依次执行 procedure 操作，结果顺序与请求顺序一致。
// 其它类型的操作不被支持，会被跳过且不产生结果项 (记录一条警告)；
// 任一操作失败则整个 mutation 失败。
func (h *Handler) RunMutation(ctx context.Context, operations []domain.MutationOperation) (*domain.MutationResponse, error) {
	results := make([]domain.MutationOperationResults, 0, len(operations))

	for i, op := range operations {
		if op.Type != domain.MutationProcedure {
			slog.Warn("跳过不支持的 mutation 操作类型", "index", i, "type", op.Type, "name", op.Name)
			continue
		}

		arguments := make(map[string]domain.Argument, len(op.Arguments))
		for name, value := range op.Arguments {
			arguments[name] = domain.Literal(value)
		}

		resp, err := h.Invoke(ctx, op.Name, arguments, op.Fields)
		if err != nil {
			return nil, err
		}
		results = append(results, toOperationResults(resp))
	}

	return &domain.MutationResponse{OperationResults: results}, nil
}

// toOperationResults 把 query 结果转换为单个 mutation 结果。
// 只看第一个行集；没有行集时 affected_rows 为 0。
func toOperationResults(resp domain.QueryResponse) domain.MutationOperationResults {
	if len(resp) == 0 {
		return domain.MutationOperationResults{AffectedRows: 0, Returning: nil}
	}
	rows := resp[0].Rows
	if rows == nil {
		rows = []domain.Row{}
	}
	return domain.MutationOperationResults{AffectedRows: 1, Returning: rows}
}
