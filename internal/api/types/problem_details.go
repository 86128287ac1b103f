package types

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/weisyn/mintregistry/pkg/interfaces/registry"
)

// ProblemDetails 错误响应结构（RFC7807 + 扩展字段）
type ProblemDetails struct {
	// RFC7807 标准字段
	Type     string `json:"type,omitempty"`
	Title    string `json:"title,omitempty"`
	Status   int    `json:"status,omitempty"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	// 扩展字段（必填）
	Code        string                 `json:"code"`
	Layer       string                 `json:"layer"`
	UserMessage string                 `json:"userMessage"`
	Details     map[string]interface{} `json:"details,omitempty"`
	TraceID     string                 `json:"traceId"`
	Timestamp   string                 `json:"timestamp"`
}

// Error 实现 error 接口
func (p *ProblemDetails) Error() string {
	if p.Detail != "" {
		return p.Detail
	}
	return p.UserMessage
}

// WriteJSON 将 Problem Details 写入 HTTP 响应
func (p *ProblemDetails) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// NewProblemDetails 创建新的 Problem Details
func NewProblemDetails(
	code string,
	layer string,
	userMessage string,
	detail string,
	status int,
	details map[string]interface{},
) *ProblemDetails {
	if details == nil {
		details = make(map[string]interface{})
	}

	return &ProblemDetails{
		Title:       http.StatusText(status),
		Code:        code,
		Layer:       layer,
		UserMessage: userMessage,
		Detail:      detail,
		Status:      status,
		Details:     details,
		TraceID:     uuid.New().String(),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
}

// IsProblemDetails 检查错误链中是否有 Problem Details
func IsProblemDetails(err error) (*ProblemDetails, bool) {
	var pd *ProblemDetails
	if errors.As(err, &pd) {
		return pd, true
	}
	return nil, false
}

// 网关自身的错误码，注册表错误码见 registry.Code*
const (
	CodeRateLimited          = "RATE_LIMITED"
	CodePrivateKeyRejected   = "PRIVATE_KEY_REJECTED"
	CodeRequestTooLarge      = "REQUEST_TOO_LARGE"
	CodeCommonValidation     = "COMMON_VALIDATION_ERROR"
	CodeCommonInternalError  = "COMMON_INTERNAL_ERROR"
	CodeCommonNotImplemented = "COMMON_NOT_IMPLEMENTED"
)

// Layer 常量
const (
	LayerRegistryService = "registry-service"
	LayerHTTPGateway     = "http-gateway"
)

var errorStatus = map[string]int{
	registry.CodeUnauthorized:               http.StatusUnauthorized,
	registry.CodeNotInitialized:             http.StatusConflict,
	registry.CodeAlreadyInitialized:         http.StatusConflict,
	registry.CodeSaleNotActive:              http.StatusForbidden,
	registry.CodeExceedsPerTransactionLimit: http.StatusUnprocessableEntity,
	registry.CodeExceedsWalletQuota:         http.StatusUnprocessableEntity,
	registry.CodeSupplyExhausted:            http.StatusGone,
	registry.CodeTokenNotFound:              http.StatusNotFound,
	registry.CodeInvalidArgument:            http.StatusBadRequest,
	registry.CodeReadOnly:                   http.StatusServiceUnavailable,
}

var userMessages = map[string]string{
	registry.CodeUnauthorized:               "授权证明缺失、无效或已被使用。",
	registry.CodeNotInitialized:             "注册表尚未初始化。",
	registry.CodeAlreadyInitialized:         "注册表已经初始化，不能重复初始化。",
	registry.CodeSaleNotActive:              "销售尚未开启。",
	registry.CodeExceedsPerTransactionLimit: "单次铸造数量超过上限。",
	registry.CodeExceedsWalletQuota:         "该地址累计铸造数量超过上限。",
	registry.CodeSupplyExhausted:            "剩余供应量不足。",
	registry.CodeTokenNotFound:              "代币不存在。",
	registry.CodeInvalidArgument:            "请求参数格式错误。",
	registry.CodeCorruptState:               "注册表状态损坏，请联系管理员。",
	registry.CodeReadOnly:                   "注册表处于只读模式，暂不接受写入。",
	registry.CodeInternal:                   "服务器内部错误，请稍后重试或联系管理员。",
}

// StatusFor 返回注册表错误对应的 HTTP 状态码
func StatusFor(err error) int {
	if status, ok := errorStatus[registry.Kind(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// FromError 把任意错误转换为 Problem Details
func FromError(err error, instance string) *ProblemDetails {
	if pd, ok := IsProblemDetails(err); ok {
		return pd
	}
	code := registry.Kind(err)
	pd := NewProblemDetails(code, LayerRegistryService, userMessages[code], err.Error(), StatusFor(err), nil)
	pd.Instance = instance
	return pd
}
