package api

import "time"

// API服务默认配置值
const (
	// defaultHTTPEnabled 默认启用HTTP API
	defaultHTTPEnabled = true

	// defaultHTTPHost 默认只监听本机
	// 管理操作依赖签名授权，但仍不建议默认对外暴露
	defaultHTTPHost = "127.0.0.1"

	// defaultHTTPPort HTTP端口
	defaultHTTPPort = 8080

	defaultHTTPReadTimeout     = 15 * time.Second
	defaultHTTPWriteTimeout    = 15 * time.Second
	defaultHTTPShutdownTimeout = 10 * time.Second

	// defaultMaxRequestSize 最大请求大小设为64KB
	// 所有入口参数都是短字符串和整数
	defaultMaxRequestSize = 64 * 1024

	// 限流：写入口逐次验签并串行提交，比读严格得多
	defaultReadRateLimit  = 100
	defaultWriteRateLimit = 10

	// defaultEnableMetrics 默认暴露 /metrics
	defaultEnableMetrics = true

	defaultEnableWebSocket = true
)
