package api

import (
	"time"

	"github.com/weisyn/mintregistry/pkg/types"
)

// APIOptions API服务配置选项
type APIOptions struct {
	// HTTP API配置
	HTTP HTTPConfig `json:"http"`
}

// HTTPConfig HTTP API配置
type HTTPConfig struct {
	// 基础配置
	Enabled bool   `json:"enabled"` // 是否启用HTTP服务（总开关）
	Host    string `json:"host"`    // 监听地址
	Port    int    `json:"port"`    // 监听端口

	// 超时配置
	ReadTimeout     time.Duration `json:"read_timeout"`     // 读取超时时间
	WriteTimeout    time.Duration `json:"write_timeout"`    // 写入超时时间
	ShutdownTimeout time.Duration `json:"shutdown_timeout"` // 优雅关闭超时

	// 限制
	MaxRequestSize int64 `json:"max_request_size"` // 最大请求大小(字节)

	// 限流（每个客户端IP每秒请求数）
	ReadRateLimit  int `json:"read_rate_limit"`
	WriteRateLimit int `json:"write_rate_limit"`

	// 是否暴露 /metrics
	EnableMetrics bool `json:"enable_metrics"`

	// 是否开放 /api/v1/registry/events 事件推送
	EnableWebSocket bool `json:"enable_websocket"`
}

// Config API配置实现
type Config struct {
	options *APIOptions
}

// New 创建API配置实现
func New(userConfig *types.UserAPIConfig) *Config {
	// 1. 先创建完整的默认配置
	defaultOptions := createDefaultAPIOptions()

	// 2. 如果有用户配置，则转换并覆盖默认配置
	if userConfig != nil {
		convertAndMergeUserConfig(defaultOptions, userConfig)
	}

	return &Config{
		options: defaultOptions,
	}
}

// createDefaultAPIOptions 创建默认API配置
func createDefaultAPIOptions() *APIOptions {
	return &APIOptions{
		HTTP: HTTPConfig{
			Enabled:         defaultHTTPEnabled,
			Host:            defaultHTTPHost,
			Port:            defaultHTTPPort,
			ReadTimeout:     defaultHTTPReadTimeout,
			WriteTimeout:    defaultHTTPWriteTimeout,
			ShutdownTimeout: defaultHTTPShutdownTimeout,
			MaxRequestSize:  defaultMaxRequestSize,
			ReadRateLimit:   defaultReadRateLimit,
			WriteRateLimit:  defaultWriteRateLimit,
			EnableMetrics:   defaultEnableMetrics,
			EnableWebSocket: defaultEnableWebSocket,
		},
	}
}

// convertAndMergeUserConfig 用户配置只覆盖实际出现的字段
func convertAndMergeUserConfig(options *APIOptions, userConfig *types.UserAPIConfig) {
	if userConfig.HTTPEnabled != nil {
		options.HTTP.Enabled = *userConfig.HTTPEnabled
	}
	if userConfig.HTTPHost != nil {
		options.HTTP.Host = *userConfig.HTTPHost
	}
	if userConfig.HTTPPort != nil {
		options.HTTP.Port = *userConfig.HTTPPort
	}
	if userConfig.ReadRateLimit != nil && *userConfig.ReadRateLimit > 0 {
		options.HTTP.ReadRateLimit = *userConfig.ReadRateLimit
	}
	if userConfig.WriteRateLimit != nil && *userConfig.WriteRateLimit > 0 {
		options.HTTP.WriteRateLimit = *userConfig.WriteRateLimit
	}
	if userConfig.EnableWebSocket != nil {
		options.HTTP.EnableWebSocket = *userConfig.EnableWebSocket
	}
}

// GetOptions 获取完整的API配置选项
func (c *Config) GetOptions() *APIOptions {
	return c.options
}
