// Package config file: internal/config/server.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix 是服务器参数环境变量的前缀，例如 CONNECTOR_SERVER_PORT。
const EnvPrefix = "CONNECTOR"

// ServerConfig 是协议服务器自身的运行参数。
type ServerConfig struct {
	Port               int           `mapstructure:"port"`
	LogLevel           string        `mapstructure:"log_level"`
	ServiceTokenSecret string        `mapstructure:"service_token_secret"`
	DebugAddress       string        `mapstructure:"debug_address"`
	RateLimitPerSecond float64       `mapstructure:"rate_limit_per_second"`
	RateLimitBurst     int           `mapstructure:"rate_limit_burst"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
}

// Config 是配置文件的顶层结构
type Config struct {
	Server        ServerConfig `mapstructure:"server"`
	Configuration string       `mapstructure:"configuration"`
}

// SetDefaults 在 v 上登记默认值并打开环境变量覆盖。
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8100)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.service_token_secret", "")
	v.SetDefault("server.debug_address", "")
	v.SetDefault("server.rate_limit_per_second", 0.0)
	v.SetDefault("server.rate_limit_burst", 20)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("configuration", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load 读取可选的配置文件并解析出 Config。file 为空时只使用默认值与环境变量。
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置文件 '%s' 失败: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置到结构体失败: %w", err)
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("server.port 非法: %d", cfg.Server.Port)
	}
	return &cfg, nil
}
