package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apitypes "github.com/weisyn/mintregistry/internal/api/types"
)

// RequestGuard 写入口请求体检查
//
// - 请求体超过 maxBytes 返回 413
// - 拒绝携带私钥字段的请求：签名只在客户端完成，服务端从不接收私钥
type RequestGuard struct {
	logger   *zap.Logger
	maxBytes int64
}

// NewRequestGuard 创建请求体检查中间件
func NewRequestGuard(logger *zap.Logger, maxBytes int64) *RequestGuard {
	return &RequestGuard{logger: logger, maxBytes: maxBytes}
}

// Middleware 返回Gin中间件
func (m *RequestGuard) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isWriteOperation(c.Request.URL.Path, c.Request.Method) {
			c.Next()
			return
		}

		body := c.Request.Body
		if m.maxBytes > 0 {
			body = http.MaxBytesReader(c.Writer, c.Request.Body, m.maxBytes)
		}
		bodyBytes, err := io.ReadAll(body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				WriteError(c, apitypes.CodeRequestTooLarge, "请求体过大。", err.Error(),
					http.StatusRequestEntityTooLarge, map[string]interface{}{"limit": m.maxBytes})
				return
			}
			WriteError(c, apitypes.CodeCommonValidation, "无法读取请求体。", err.Error(), http.StatusBadRequest, nil)
			return
		}

		if containsPrivateKey(bodyBytes) {
			m.logger.Warn("Request contains private key field - REJECTED",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()))
			WriteError(c, apitypes.CodePrivateKeyRejected,
				"服务端不接收私钥，请在客户端完成签名后提交授权证明。",
				"request body contains a private key field",
				http.StatusForbidden, nil)
			return
		}

		// 交还给后续 handler 绑定
		c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		c.Next()
	}
}

var privateKeyFields = []string{
	"private_key",
	"privateKey",
	"privKey",
	"priv_key",
	"secret_key",
	"secretKey",
}

// containsPrivateKey 检查请求体顶层及 authorization 内是否出现私钥字段
func containsPrivateKey(body []byte) bool {
	var data map[string]json.RawMessage
	if err := json.Unmarshal(body, &data); err != nil {
		return false
	}
	if hasAnyField(data) {
		return true
	}
	if raw, ok := data["authorization"]; ok {
		var nested map[string]json.RawMessage
		if json.Unmarshal(raw, &nested) == nil && hasAnyField(nested) {
			return true
		}
	}
	return false
}

func hasAnyField(data map[string]json.RawMessage) bool {
	for _, field := range privateKeyFields {
		if _, exists := data[field]; exists {
			return true
		}
	}
	return false
}
