// Package event 定义进程内事件总线接口
//
// 🎯 **事件总线 (Event Bus)**
//
// 注册表在事务提交之后发布领域事件，订阅方（指标、审计日志、外部推送）
// 只会观察到已经生效的状态变化。
package event

// EventType 事件类型
type EventType string

// EventBus 事件总线接口
type EventBus interface {
	// Subscribe 同步订阅事件
	Subscribe(eventType EventType, handler interface{}) error
	// SubscribeAsync 异步订阅事件
	SubscribeAsync(eventType EventType, handler interface{}, transactional bool) error
	// Unsubscribe 取消订阅
	Unsubscribe(eventType EventType, handler interface{}) error
	// Publish 发布事件
	Publish(eventType EventType, args ...interface{})
	// HasCallback 检查是否有订阅者
	HasCallback(eventType EventType) bool
	// WaitAsync 等待所有异步处理完成
	WaitAsync()
}
