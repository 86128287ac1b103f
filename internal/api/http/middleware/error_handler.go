package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apitypes "github.com/weisyn/mintregistry/internal/api/types"
)

// ErrorHandler 错误处理中间件
//
// handler 通过 c.Error 上报错误，这里统一转换为 Problem Details。
// 注册表拒绝属于正常业务结果，只在 5xx 时记 Error。
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		problem := apitypes.FromError(err, c.Request.URL.Path)
		if requestID := GetRequestID(c); requestID != "" {
			problem.TraceID = requestID
		}

		fields := []zap.Field{
			zap.String("code", problem.Code),
			zap.String("traceId", problem.TraceID),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		}
		if problem.Status >= 500 {
			logger.Error("HTTP error", fields...)
		} else {
			logger.Debug("HTTP rejected", fields...)
		}
		WriteProblemDetails(c, problem)
	}
}

// WriteProblemDetails 写入 Problem Details 响应，traceId 与请求ID保持一致
func WriteProblemDetails(c *gin.Context, problem *apitypes.ProblemDetails) {
	if requestID := GetRequestID(c); requestID != "" {
		problem.TraceID = requestID
	}
	c.Header("Content-Type", "application/problem+json")
	c.JSON(problem.Status, problem)
	c.Abort()
}

// WriteError 写入网关层错误响应
func WriteError(c *gin.Context, code string, userMessage string, detail string, status int, details map[string]interface{}) {
	problem := apitypes.NewProblemDetails(
		code,
		apitypes.LayerHTTPGateway,
		userMessage,
		detail,
		status,
		details,
	)
	problem.Instance = c.Request.URL.Path
	WriteProblemDetails(c, problem)
}
