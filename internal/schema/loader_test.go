// file: internal/schema/loader_test.go
package schema

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSchema = `{
  "scalar_types": {"Float": {"aggregate_functions": {}, "comparison_operators": {}}},
  "object_types": {},
  "collections": [],
  "functions": [
    {
      "name": "add",
      "arguments": {
        "x": {"type": {"type": "named", "name": "Float"}, "position": 1},
        "y": {"type": {"type": "named", "name": "Float"}, "position": 0}
      },
      "result_type": {"type": "named", "name": "Float"}
    }
  ],
  "procedures": [
    {
      "name": "save",
      "description": "persists a value",
      "arguments": {
        "value": {"type": {"type": "named", "name": "Float"}, "position": 0}
      },
      "result_type": {"type": "named", "name": "Float"}
    }
  ]
}`

func writeSchema(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_Load_Valid(t *testing.T) {
	path := writeSchema(t, validSchema)

	doc, idx, err := NewLoader(nil).Load(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, doc.Functions, 1)
	require.Len(t, doc.Procedures, 1)
	assert.Equal(t, "add", doc.Functions[0].Name)
	assert.Equal(t, "persists a value", *doc.Procedures[0].Description)
	assert.Contains(t, doc.ScalarTypes, "Float")

	assert.Equal(t, 2, idx.Len())
	pos, ok := idx.Lookup("add", "x")
	assert.True(t, ok)
	assert.Equal(t, uint32(1), pos)
	pos, ok = idx.Lookup("add", "y")
	assert.True(t, ok)
	assert.Equal(t, uint32(0), pos)
	pos, ok = idx.Lookup("save", "value")
	assert.True(t, ok)
	assert.Equal(t, uint32(0), pos)
}

func TestLoader_Load_FromHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(validSchema))
	}))
	defer server.Close()

	doc, idx, err := NewLoader(server.Client()).Load(context.Background(), server.URL+"/schema.json")
	require.NoError(t, err)
	assert.Len(t, doc.Functions, 1)
	assert.Equal(t, 2, idx.Len())
}

func TestLoader_Load_Errors(t *testing.T) {
	ctx := context.Background()
	loader := NewLoader(nil)

	t.Run("missing file", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "nope.json")
		_, _, err := loader.Load(ctx, missing)

		var readErr *ReadError
		require.True(t, errors.As(err, &readErr))
		assert.Equal(t, missing, readErr.Location)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	testCases := []struct {
		name      string
		content   string
		wantShape string
	}{
		{"empty document", "", ShapeSchemaResponse},
		{"not json", "functions:", ShapeSchemaResponse},
		{"empty object", "{}", ShapeSchemaResponse},
		{
			"missing procedures",
			`{"scalar_types": {}, "object_types": {}, "collections": [], "functions": []}`,
			ShapeSchemaResponse,
		},
		{
			"argument without type",
			`{"scalar_types": {}, "object_types": {}, "collections": [], "procedures": [],
			  "functions": [{"name": "f", "arguments": {"a": {"position": 0}}, "result_type": {"type": "named", "name": "Float"}}]}`,
			ShapeSchemaResponse,
		},
		{
			"argument without position",
			`{"scalar_types": {}, "object_types": {}, "collections": [], "procedures": [],
			  "functions": [{"name": "f", "arguments": {"a": {"type": {"type": "named", "name": "Float"}}}, "result_type": {"type": "named", "name": "Float"}}]}`,
			ShapeArgumentPositions,
		},
		{
			"negative position",
			`{"scalar_types": {}, "object_types": {}, "collections": [], "procedures": [],
			  "functions": [{"name": "f", "arguments": {"a": {"type": {"type": "named", "name": "Float"}, "position": -1}}, "result_type": {"type": "named", "name": "Float"}}]}`,
			ShapeArgumentPositions,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := loader.Load(ctx, writeSchema(t, tc.content))

			var shapeErr *ShapeError
			require.True(t, errors.As(err, &shapeErr), "got %v", err)
			assert.Equal(t, tc.wantShape, shapeErr.Shape)
		})
	}
}

func TestLoader_Parse_EmptyCatalog(t *testing.T) {
	doc, idx, err := NewLoader(nil).Parse([]byte(`{"scalar_types": {}, "object_types": {}, "collections": [], "functions": [], "procedures": []}`))
	require.NoError(t, err)
	assert.Empty(t, doc.Functions)
	assert.Equal(t, 0, idx.Len())
}
