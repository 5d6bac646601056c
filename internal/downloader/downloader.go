// file: internal/downloader/downloader.go
package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// maxErrorBody 限制错误信息中附带的响应体长度
const maxErrorBody = 512

// ErrUnsupportedScheme 表示没有任何下载器支持该位置的协议。
var ErrUnsupportedScheme = errors.New("不支持的位置协议")

// Downloader 是所有下载器都必须实现的接口。
type Downloader interface {
	// SupportsScheme 支持的协议 (e.g., "http", "https", "file")
	SupportsScheme(scheme string) bool
	// Download 执行下载，返回一个可读取文件内容的对象
	Download(ctx context.Context, sourceURL *url.URL) (io.ReadCloser, error)
}

// HTTPDownloader =============================================================================
//
//	HTTP/HTTPS 下载器实现
//
// =============================================================================
type HTTPDownloader struct {
	Client *http.Client
}

func (d *HTTPDownloader) SupportsScheme(scheme string) bool {
	return scheme == "http" || scheme == "https"
}

func (d *HTTPDownloader) Download(ctx context.Context, sourceURL *url.URL) (io.ReadCloser, error) {
	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("HTTP请求失败: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP请求失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("HTTP请求失败: 状态码 %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return resp.Body, nil
}

// FileDownloader =============================================================================
//
//	本地文件读取器
//
// =============================================================================
type FileDownloader struct{}

func (d *FileDownloader) SupportsScheme(scheme string) bool {
	return scheme == "file"
}

func (d *FileDownloader) Download(_ context.Context, sourceURL *url.URL) (io.ReadCloser, error) {
	return os.Open(resolveLocalFilePath(sourceURL))
}

// resolveLocalFilePath 把 file:// URL 转成本地路径。
// Windows 下 "file:///C:/x" 的 Path 是 "/C:/x"，需要去掉前导斜杠。
func resolveLocalFilePath(u *url.URL) string {
	path := filepath.FromSlash(u.Path)
	if len(path) > 2 && path[0] == filepath.Separator && path[2] == ':' {
		path = path[1:]
	}
	return path
}

// Defaults 返回默认支持的下载器集合：本地文件与 HTTP(S)。
func Defaults(client *http.Client) []Downloader {
	return []Downloader{
		&FileDownloader{},
		&HTTPDownloader{Client: client},
	}
}

// Open 按位置的协议选择下载器并打开内容。
// 没有协议的位置 (包括 "C:\x" 这样的盘符路径) 被当作本地文件路径。
func Open(ctx context.Context, location string, downloaders []Downloader) (io.ReadCloser, error) {
	u, err := url.Parse(location)
	if err != nil || len(u.Scheme) <= 1 {
		return os.Open(location)
	}
	for _, d := range downloaders {
		if d.SupportsScheme(u.Scheme) {
			return d.Download(ctx, u)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
}

// ReadAll 打开位置并读出全部内容。
func ReadAll(ctx context.Context, location string, downloaders []Downloader) ([]byte, error) {
	rc, err := Open(ctx, location, downloaders)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
