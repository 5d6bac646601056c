// file: internal/service/connector/mutation_test.go
package connector

import (
	"DenoConnector/internal/core/domain"
	"DenoConnector/internal/core/port"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedHost 是 port.FunctionHost 的测试替身，按函数名返回预设结果
type scriptedHost struct {
	results map[string]any
	errs    map[string]error
	calls   []domain.Invocation
}

func (s *scriptedHost) Invoke(_ context.Context, inv domain.Invocation) (any, error) {
	s.calls = append(s.calls, inv)
	if err, ok := s.errs[inv.FunctionName]; ok {
		return nil, err
	}
	return s.results[inv.FunctionName], nil
}

func raw(s string) json.RawMessage { return json.RawMessage(s) }

func TestRunMutation_ProceduresInOrder(t *testing.T) {
	host := &scriptedHost{results: map[string]any{
		"first":  map[string]any{"id": 1, "name": "a"},
		"second": "done",
	}}
	h := NewHandler(addPositions(), host)

	resp, err := h.RunMutation(context.Background(), []domain.MutationOperation{
		{Type: domain.MutationProcedure, Name: "first", Arguments: map[string]json.RawMessage{"v": raw(`1`)},
			Fields: map[string]domain.Field{"ident": domain.ColumnField("id")}},
		{Type: "delete", Name: "ignored"},
		{Type: domain.MutationProcedure, Name: "second"},
	})
	require.NoError(t, err)

	require.Len(t, resp.OperationResults, 2, "不支持的操作类型不产生结果项")
	assert.JSONEq(t,
		`{"operation_results":[
			{"affected_rows":1,"returning":[{"__value":{"ident":1}}]},
			{"affected_rows":1,"returning":[{"__value":"done"}]}
		]}`,
		encode(t, resp))

	require.Len(t, host.calls, 2)
	assert.Equal(t, "first", host.calls[0].FunctionName)
	assert.Equal(t, []json.RawMessage{raw(`1`)}, host.calls[0].Args)
	assert.Equal(t, "second", host.calls[1].FunctionName)
}

func TestRunMutation_ArgumentsAreLiteralAndPositioned(t *testing.T) {
	host := &scriptedHost{}
	h := NewHandler(addPositions(), host)

	_, err := h.RunMutation(context.Background(), []domain.MutationOperation{
		{Type: domain.MutationProcedure, Name: "add", Arguments: map[string]json.RawMessage{"x": raw(`5`), "y": raw(`3`)}},
	})
	require.NoError(t, err)
	require.Len(t, host.calls, 1)
	assert.Equal(t, []json.RawMessage{raw(`3`), raw(`5`)}, host.calls[0].Args)
}

func TestRunMutation_StopsOnFirstError(t *testing.T) {
	host := &scriptedHost{errs: map[string]error{"bad": port.InvalidRequest("nope")}}
	h := NewHandler(addPositions(), host)

	resp, err := h.RunMutation(context.Background(), []domain.MutationOperation{
		{Type: domain.MutationProcedure, Name: "ok"},
		{Type: domain.MutationProcedure, Name: "bad"},
		{Type: domain.MutationProcedure, Name: "never"},
	})
	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, port.ErrInvalidRequest))
	assert.Len(t, host.calls, 2)
}

func TestRunMutation_Empty(t *testing.T) {
	resp, err := NewHandler(addPositions(), &scriptedHost{}).RunMutation(context.Background(), nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"operation_results":[]}`, encode(t, resp))
}

func TestToOperationResults(t *testing.T) {
	t.Run("no row-set", func(t *testing.T) {
		got := toOperationResults(domain.QueryResponse{})
		assert.Equal(t, uint32(0), got.AffectedRows)
		assert.Nil(t, got.Returning)
	})

	t.Run("row-set without rows", func(t *testing.T) {
		got := toOperationResults(domain.QueryResponse{{}})
		assert.Equal(t, uint32(1), got.AffectedRows)
		assert.NotNil(t, got.Returning)
		assert.Empty(t, got.Returning)
	})
}
