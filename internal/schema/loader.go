// Package schema 负责读取 schema 文件并构建参数位置索引。
//
// 同一份 JSON 文档会被解析两次：一次作为协议的 schema 文档，
// 一次作为 {functions, procedures} 形式的参数位置列表。两次都必须成功。
package schema

import (
	"DenoConnector/internal/core/domain"
	"DenoConnector/internal/downloader"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"
)

// 两种文档形状的名称，出现在 ShapeError 中
const (
	ShapeSchemaResponse    = "SchemaResponse"
	ShapeArgumentPositions = "FunctionArgumentPositions"
)

// positionShape 是参数位置列表的 JSON Schema。
const positionShape = `{
  "type": "object",
  "required": ["functions", "procedures"],
  "properties": {
    "functions":  {"type": "array", "items": {"$ref": "#/definitions/function"}},
    "procedures": {"type": "array", "items": {"$ref": "#/definitions/function"}}
  },
  "definitions": {
    "function": {
      "type": "object",
      "required": ["name", "arguments"],
      "properties": {
        "name": {"type": "string"},
        "arguments": {
          "type": "object",
          "additionalProperties": {
            "type": "object",
            "required": ["position"],
            "properties": {
              "position": {"type": "integer", "minimum": 0, "maximum": 4294967295}
            }
          }
        }
      }
    }
  }
}`

var positionSchema = mustCompile(positionShape)

func mustCompile(doc string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(doc))
	if err != nil {
		panic(fmt.Sprintf("schema: 内置 JSON Schema 无法编译: %v", err))
	}
	return s
}

// ReadError 表示 schema 文件无法读取。
type ReadError struct {
	Location string
	Err      error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("无法读取 schema 文件 %s: %v", e.Location, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// ShapeError 表示文件内容不符合某一种要求的文档形状。
type ShapeError struct {
	Shape string
	Err   error
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("schema 文件应当是合法的 %s: %v", e.Shape, e.Err)
}

func (e *ShapeError) Unwrap() error { return e.Err }

// Loader 从本地路径或 URL 读取 schema 文件。
type Loader struct {
	downloaders []downloader.Downloader
	validate    *validator.Validate
}

// NewLoader 创建一个 Loader。client 用于 http(s) 位置，可以为 nil。
func NewLoader(client *http.Client) *Loader {
	return &Loader{
		downloaders: downloader.Defaults(client),
		validate:    validator.New(),
	}
}

// Load 读取并解析 location 处的 schema 文件。
func (l *Loader) Load(ctx context.Context, location string) (*domain.SchemaResponse, *PositionIndex, error) {
	data, err := downloader.ReadAll(ctx, location, l.downloaders)
	if err != nil {
		return nil, nil, &ReadError{Location: location, Err: err}
	}
	return l.Parse(data)
}

// Parse 对同一份字节做两次解析。
func (l *Loader) Parse(data []byte) (*domain.SchemaResponse, *PositionIndex, error) {
	var doc domain.SchemaResponse
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, &ShapeError{Shape: ShapeSchemaResponse, Err: err}
	}
	if err := l.validate.Struct(&doc); err != nil {
		return nil, nil, &ShapeError{Shape: ShapeSchemaResponse, Err: err}
	}

	result, err := positionSchema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, nil, &ShapeError{Shape: ShapeArgumentPositions, Err: err}
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, nil, &ShapeError{Shape: ShapeArgumentPositions, Err: fmt.Errorf("%s", strings.Join(msgs, "; "))}
	}
	var positions positionDocument
	if err := json.Unmarshal(data, &positions); err != nil {
		return nil, nil, &ShapeError{Shape: ShapeArgumentPositions, Err: err}
	}

	return &doc, BuildPositionIndex(positions.Functions, positions.Procedures), nil
}
