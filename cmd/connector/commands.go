// file: cmd/connector/commands.go

package main

import (
	"DenoConnector/internal/config"
	"DenoConnector/internal/core/port"
	"DenoConnector/internal/schema"
	"DenoConnector/internal/service/connector"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// 退出码
const (
	exitInvalidConfiguration = 2
)

type rootOptions struct {
	configFile    string
	configuration string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "connector",
		Short:         "Data connector exposing a remote function host over the query/mutation protocol",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "服务器配置文件 (yaml/json)")
	root.PersistentFlags().StringVar(&opts.configuration, "configuration", "", "连接器 RawConfiguration JSON 文件")

	root.AddCommand(newServeCommand(opts))
	root.AddCommand(newValidateCommand(opts))
	root.AddCommand(newConfigurationCommand(opts))
	root.AddCommand(newVersionCommand())
	return root
}

// loadSettings 读取服务器配置；--configuration 优先于配置文件中的 configuration 项
func loadSettings(cmd *cobra.Command, opts *rootOptions) (*config.Config, config.RawConfiguration, error) {
	v := viper.New()
	if err := v.BindPFlag("configuration", cmd.Flags().Lookup("configuration")); err != nil {
		return nil, config.RawConfiguration{}, err
	}
	cfg, err := config.Load(v, opts.configFile)
	if err != nil {
		return nil, config.RawConfiguration{}, err
	}
	raw, err := config.ReadRawConfiguration(cfg.Configuration)
	if err != nil {
		return nil, config.RawConfiguration{}, err
	}
	return cfg, raw, nil
}

func newValidateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "校验连接器配置与 schema 文件",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, raw, err := loadSettings(cmd, opts)
			if err != nil {
				return err
			}
			cfg, err := connector.ValidateRawConfiguration(cmd.Context(), raw, schema.NewLoader(http.DefaultClient))
			if err != nil {
				var verr *port.ValidateError
				if errors.As(err, &verr) {
					_ = writeJSON(cmd.OutOrStdout(), verr)
					return cliError{code: exitInvalidConfiguration, err: err}
				}
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"deno_deployment_url": cfg.DenoDeploymentURL.String(),
				"functions":           len(cfg.Schema.Functions),
				"procedures":          len(cfg.Schema.Procedures),
				"indexed_callables":   cfg.Positions.Len(),
			})
		},
	}
}

func newConfigurationCommand(opts *rootOptions) *cobra.Command {
	var empty bool
	cmd := &cobra.Command{
		Use:   "configuration",
		Short: "输出 (更新后的) 原始配置",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if empty {
				return writeJSON(cmd.OutOrStdout(), connector.MakeEmptyConfiguration())
			}
			_, raw, err := loadSettings(cmd, opts)
			if err != nil {
				return err
			}
			updated, err := connector.UpdateConfiguration(cmd.Context(), raw)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), updated)
		},
	}
	cmd.Flags().BoolVar(&empty, "empty", false, "输出空配置")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "输出版本号",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
