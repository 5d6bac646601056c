// Package observe file: internal/observe/debug.go
package observe

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"time"
)

// NewDebugServer 构建在 addr 上暴露 /debug/pprof 与 /metrics 的服务器。
// 例如 addr 可以是 "localhost:6060" 或 ":6060"；为空时返回 nil。
func NewDebugServer(addr string) *http.Server {
	if addr == "" {
		slog.Info("debug endpoint is disabled because address is empty")
		return nil
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/metrics", Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// RunDebugServer 运行调试服务器直到 ctx 结束。srv 为 nil 时直接等待 ctx。
func RunDebugServer(ctx context.Context, srv *http.Server) error {
	if srv == nil {
		<-ctx.Done()
		return nil
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting debug endpoint", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
