// Package types 定义 WebSocket 消息格式（JSON-RPC 2.0）
package types

import "encoding/json"

// 方法名
const (
	MethodSubscribe    = "registry_subscribe"
	MethodUnsubscribe  = "registry_unsubscribe"
	MethodNotification = "registry_subscription"
)

// JSON-RPC 错误码
const (
	CodeParseError     = -32700
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeServerError    = -32000
)

// Request 客户端请求
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// Response 请求响应
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error JSON-RPC 错误对象
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Notification 服务端推送
type Notification struct {
	JSONRPC string             `json:"jsonrpc"`
	Method  string             `json:"method"`
	Params  SubscriptionResult `json:"params"`
}

// SubscriptionResult 推送载荷
type SubscriptionResult struct {
	Subscription string      `json:"subscription"` // 订阅ID
	Result       interface{} `json:"result"`       // 事件数据
}
