// file: internal/adapter/functionhost/client.go
package functionhost

import (
	"DenoConnector/internal/core/domain"
	"DenoConnector/internal/core/port"
	"DenoConnector/internal/observe"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// 编译期断言，确保 Client 实现了 port.FunctionHost 接口
var _ port.FunctionHost = (*Client)(nil)

// Client 把函数调用以 JSON POST 的形式转发给远程函数宿主。
// http.Client 由外部注入并在所有请求间共享；这里不设超时也不重试，
// 请求的取消完全取决于调用方传入的 ctx。
type Client struct {
	endpoint *url.URL
	http     *http.Client
}

// New 创建一个新的远程函数宿主客户端。
func New(endpoint *url.URL, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{endpoint: endpoint, http: httpClient}
}

// Invoke 发起一次调用并返回解码后的 JSON 结果。
func (c *Client) Invoke(ctx context.Context, inv domain.Invocation) (result any, err error) {
	start := time.Now()
	status := "transport_error"
	defer func() {
		observe.ObserveInvocation(inv.FunctionName, status, time.Since(start))
	}()

	if inv.Args == nil {
		inv.Args = []json.RawMessage{}
	}
	body, err := json.Marshal(inv)
	if err != nil {
		return nil, port.Other(fmt.Errorf("编码调用请求失败: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, port.Other(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	slog.Debug("functionhost: 正在调用远程函数", "function", inv.FunctionName, "args", len(inv.Args))
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, port.Other(err)
	}
	defer resp.Body.Close()
	status = strconv.Itoa(resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("执行远程函数时发生错误", "function", inv.FunctionName, "status", resp.StatusCode)
		text, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, port.Other(err)
		}
		return nil, port.InvalidRequest(string(text))
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&result); err != nil {
		return nil, port.Other(fmt.Errorf("解析远程函数返回值失败: %w", err))
	}
	if dec.More() {
		return nil, port.Other(fmt.Errorf("解析远程函数返回值失败: JSON 值之后存在多余内容"))
	}
	return result, nil
}
