package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	infralog "github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/mintregistry/pkg/interfaces/registry"
)

// probePaths 探活与采集请求，只在 debug 级别记录
var probePaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// Logger 访问日志中间件
type Logger struct {
	logger infralog.Logger
}

// NewLogger 创建访问日志中间件
func NewLogger(logger infralog.Logger) *Logger {
	return &Logger{logger: logger}
}

// Middleware 返回Gin中间件
//
// 被注册表拒绝的写入按 Warn 记录并带上错误码，5xx 记 Error。
func (m *Logger) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		// 推送长连接的生命周期由 websocket 服务自己记录
		if path == eventsPath {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		zl := m.logger.GetZapLogger()
		if zl == nil {
			return
		}

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("code", registry.Kind(c.Errors.Last().Err)))
		}

		level := zapcore.InfoLevel
		switch {
		case status >= 500:
			level = zapcore.ErrorLevel
		case status >= 400:
			level = zapcore.WarnLevel
		case probePaths[path]:
			level = zapcore.DebugLevel
		}
		if ce := zl.Check(level, "HTTP request"); ce != nil {
			ce.Write(fields...)
		}
	}
}
