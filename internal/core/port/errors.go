// Package port file: internal/core/port/errors.go
package port

import (
	"errors"
	"fmt"
	"strings"
)

// 标准错误。ConnectorError 通过 Is 与它们匹配，调用方用 errors.Is 判断错误类别。
var (
	ErrInvalidRequest       = errors.New("invalid request")
	ErrUnsupportedOperation = errors.New("unsupported operation")
	ErrOther                = errors.New("internal error")

	// ErrNotImplemented 表示调用了尚未实现的协议入口 (explain/health/metrics)。
	// 调用这些入口属于调用方缺陷，不是可恢复的失败。
	ErrNotImplemented = errors.New("not implemented")
)

// ErrorKind 是 query/mutation 错误的类别。
type ErrorKind int

const (
	KindOther ErrorKind = iota
	KindInvalidRequest
	KindUnsupportedOperation
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidRequest:
		return "invalid_request"
	case KindUnsupportedOperation:
		return "unsupported_operation"
	default:
		return "other"
	}
}

// ConnectorError 是 query 与 mutation 共用的错误类型。
// InvalidRequest 的 Message 原样承载远程函数宿主返回的错误文本。
type ConnectorError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ConnectorError) Error() string {
	if e.Err != nil {
		if e.Message == "" {
			return e.Err.Error()
		}
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ConnectorError) Unwrap() error { return e.Err }

// Is 让 errors.Is(err, ErrInvalidRequest) 这类判断成立。
func (e *ConnectorError) Is(target error) bool {
	switch target {
	case ErrInvalidRequest:
		return e.Kind == KindInvalidRequest
	case ErrUnsupportedOperation:
		return e.Kind == KindUnsupportedOperation
	case ErrOther:
		return e.Kind == KindOther
	}
	return false
}

// InvalidRequest 构造一个 invalid request 错误。
func InvalidRequest(msg string) *ConnectorError {
	return &ConnectorError{Kind: KindInvalidRequest, Message: msg}
}

// UnsupportedOperation 构造一个 unsupported operation 错误。
func UnsupportedOperation(msg string) *ConnectorError {
	return &ConnectorError{Kind: KindUnsupportedOperation, Message: msg}
}

// Other 包装一个底层错误 (网络故障、JSON 解析失败等)。
func Other(err error) *ConnectorError {
	return &ConnectorError{Kind: KindOther, Err: err}
}

// InvalidRange 是配置校验失败的一项：出错字段的路径加上说明。
type InvalidRange struct {
	Path    []string `json:"path"`
	Message string   `json:"message"`
}

// ValidateError 汇总一次配置校验中的全部失败项。
type ValidateError struct {
	Ranges []InvalidRange `json:"errors"`
}

func (e *ValidateError) Error() string {
	parts := make([]string, 0, len(e.Ranges))
	for _, r := range e.Ranges {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.Join(r.Path, "."), r.Message))
	}
	return "configuration is invalid: " + strings.Join(parts, "; ")
}

// Add 追加一条失败项。
func (e *ValidateError) Add(key, message string) {
	e.Ranges = append(e.Ranges, InvalidRange{Path: []string{key}, Message: message})
}

// OrNil 在没有失败项时返回 nil，避免返回一个非 nil 的空错误。
func (e *ValidateError) OrNil() error {
	if len(e.Ranges) == 0 {
		return nil
	}
	return e
}
