// file: cmd/connector/serve.go

package main

import (
	"DenoConnector/internal/config"
	"DenoConnector/internal/observe"
	"DenoConnector/internal/schema"
	"DenoConnector/internal/service/connector"
	"DenoConnector/internal/transport/http/middleware"
	"DenoConnector/internal/transport/http/router"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动协议服务器",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, raw, err := loadSettings(cmd, opts)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, raw)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "监听端口 (覆盖 server.port)")
	return cmd
}

// serve 校验配置、构建连接器并运行 HTTP 服务器直到 ctx 结束。
func serve(ctx context.Context, cfg *config.Config, raw config.RawConfiguration) error {
	observe.InitLogger(cfg.Server.LogLevel)
	slog.Info("Deno connector starting up", "version", version)

	// 远程函数宿主与 schema 下载共用一个 HTTP 客户端
	httpClient := &http.Client{}

	validated, err := connector.ValidateRawConfiguration(ctx, raw, schema.NewLoader(httpClient))
	if err != nil {
		slog.Error("连接器配置校验失败", "error", err)
		return cliError{code: exitInvalidConfiguration, err: err}
	}

	conn := connector.TryInitState(validated, httpClient)
	logConfiguration(conn.Configuration())
	observe.Register()

	gin.SetMode(gin.ReleaseMode)
	handler := router.New(router.Dependencies{
		Connector:          conn,
		ServiceTokenSecret: cfg.Server.ServiceTokenSecret,
		RateLimiter:        middleware.NewClientRateLimiter(cfg.Server.RateLimitPerSecond, cfg.Server.RateLimitBurst),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	debugServer := observe.NewDebugServer(cfg.Server.DebugAddress)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("开始监听HTTP请求...", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP服务启动失败: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return observe.RunDebugServer(gctx, debugServer)
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("收到停机信号，准备优雅关闭...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("服务异常退出", "error", err)
		return err
	}
	slog.Info("HTTP服务已成功关闭。")
	return nil
}

// logConfiguration 记录连接器最终生效的配置概况
func logConfiguration(cfg *config.Configuration) {
	slog.Info("配置加载并校验成功",
		"deno_deployment_url", cfg.DenoDeploymentURL.String(),
		"functions", len(cfg.Schema.Functions),
		"procedures", len(cfg.Schema.Procedures),
		"indexed_callables", cfg.Positions.Len(),
	)
}
