// file: cmd/connector/main_test.go

package main

import (
	"DenoConnector/internal/config"
	"DenoConnector/internal/observe"
	"DenoConnector/internal/schema"
	"DenoConnector/internal/service/connector"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliSchema = `{
  "scalar_types": {}, "object_types": {}, "collections": [],
  "functions": [{"name": "hello", "arguments": {}, "result_type": {"type": "named", "name": "String"}}],
  "procedures": []
}`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.json", cliSchema)
	rawPath := writeFile(t, dir, "configuration.json",
		`{"schema_location": "`+filepath.ToSlash(schemaPath)+`", "deno_deployment_url": "http://fns:9000"}`)

	out, err := runCLI(t, "validate", "--configuration", rawPath)
	require.NoError(t, err)

	var summary map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, "http://fns:9000", summary["deno_deployment_url"])
	assert.Equal(t, float64(1), summary["functions"])
	assert.Equal(t, float64(0), summary["procedures"])
	assert.Equal(t, float64(1), summary["indexed_callables"])
}

func TestLogConfiguration(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.json", cliSchema)
	deployment := "http://fns:9000"
	raw := config.RawConfiguration{SchemaLocation: &schemaPath, DenoDeploymentURL: &deployment}

	cfg, err := connector.ValidateRawConfiguration(context.Background(), raw, schema.NewLoader(nil))
	require.NoError(t, err)
	conn := connector.TryInitState(cfg, nil)

	var buf bytes.Buffer
	previous := slog.Default()
	observe.SetupLogger(&buf, "info")
	t.Cleanup(func() { slog.SetDefault(previous) })

	logConfiguration(conn.Configuration())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, deployment, entry["deno_deployment_url"])
	assert.Equal(t, float64(1), entry["functions"])
	assert.Equal(t, float64(1), entry["indexed_callables"])
}

func TestValidateCommand_Invalid(t *testing.T) {
	dir := t.TempDir()
	rawPath := writeFile(t, dir, "configuration.json",
		`{"schema_location": "`+filepath.ToSlash(filepath.Join(dir, "missing.json"))+`"}`)

	out, err := runCLI(t, "validate", "--configuration", rawPath)
	var ce cliError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, exitInvalidConfiguration, ce.code)
	assert.Contains(t, out, `"/schema.json"`)
	assert.Contains(t, out, "Couldn't read schema from")
}

func TestConfigurationCommand(t *testing.T) {
	out, err := runCLI(t, "configuration", "--empty")
	require.NoError(t, err)
	assert.JSONEq(t, `{"typescript_source": null, "schema_location": null, "deno_deployment_url": null}`, out)

	dir := t.TempDir()
	rawPath := writeFile(t, dir, "configuration.json", `{"typescript_source": "export const x = 1", "schema_location": "/s.json"}`)
	out, err = runCLI(t, "configuration", "--configuration", rawPath)
	require.NoError(t, err)
	assert.JSONEq(t, `{"typescript_source": "export const x = 1", "schema_location": "/s.json", "deno_deployment_url": null}`, out)
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Equal(t, version+"\n", out)
}
