// file: internal/service/connector/projection_test.go
package connector

import (
	"DenoConnector/internal/core/domain"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decode 按远程返回值的方式解码 JSON (保留数字原文)
func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func encode(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestProject(t *testing.T) {
	fields := map[string]domain.Field{"out": domain.ColumnField("in")}

	testCases := []struct {
		name   string
		value  string
		fields map[string]domain.Field
		want   string
	}{
		{"nil fields is identity", `{"in": 1, "other": 2}`, nil, `{"in": 1, "other": 2}`},
		{"object renames column", `{"in": 1, "other": 2}`, fields, `{"out": 1}`},
		{"missing column becomes null", `{}`, fields, `{"out": null}`},
		{"array projected element-wise", `[{"in": 1}, {}]`, fields, `[{"out": 1}, {"out": null}]`},
		{"nested arrays", `[[{"in": "a"}], []]`, fields, `[[{"out": "a"}], []]`},
		{"scalar unchanged", `42`, fields, `42`},
		{"string unchanged", `"hi"`, fields, `"hi"`},
		{"null unchanged", `null`, fields, `null`},
		{"array of scalars unchanged", `[1, true, null]`, fields, `[1, true, null]`},
		{"empty fields yields empty object", `{"in": 1}`, map[string]domain.Field{}, `{}`},
		{
			"non-column fields dropped",
			`{"in": 1, "rel": 2}`,
			map[string]domain.Field{
				"out": domain.ColumnField("in"),
				"r":   {Type: domain.FieldRelationship, Relationship: "rel"},
			},
			`{"out": 1}`,
		},
		{
			"same column under two names",
			`{"in": {"deep": true}}`,
			map[string]domain.Field{"a": domain.ColumnField("in"), "b": domain.ColumnField("in")},
			`{"a": {"deep": true}, "b": {"deep": true}}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Project(decode(t, tc.value), tc.fields)
			assert.JSONEq(t, tc.want, encode(t, got))
		})
	}
}

func TestProject_Idempotent(t *testing.T) {
	// 输出键与源列同名时，投影两次与投影一次结果相同
	fields := map[string]domain.Field{"a": domain.ColumnField("a"), "b": domain.ColumnField("b")}
	values := []string{`{"a": 1, "b": 2, "c": 3}`, `[{"a": 1}, {"c": 1}, 5]`, `"x"`, `{}`}

	for _, v := range values {
		once := Project(decode(t, v), fields)
		twice := Project(once, fields)
		assert.JSONEq(t, encode(t, once), encode(t, twice), "value %s", v)
	}
}

func TestProject_DistributesOverArrays(t *testing.T) {
	fields := map[string]domain.Field{"x": domain.ColumnField("y")}
	elems := []string{`{"y": 1}`, `{"z": 2}`, `3`, `[{"y": 4}]`}

	whole := Project(decode(t, "["+elems[0]+","+elems[1]+","+elems[2]+","+elems[3]+"]"), fields)

	parts := make([]any, len(elems))
	for i, e := range elems {
		parts[i] = Project(decode(t, e), fields)
	}
	assert.JSONEq(t, encode(t, parts), encode(t, whole))
}
