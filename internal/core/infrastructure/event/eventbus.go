// 基于asaskevich/EventBus的事件总线实现

package event

import (
	"fmt"
	"sync/atomic"

	evbus "github.com/asaskevich/EventBus"
	eventconfig "github.com/weisyn/mintregistry/internal/config/event"
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/log"
)

// 确保 EventBus 实现了 event.EventBus 接口
var _ event.EventBus = (*EventBus)(nil)

// EventBus 是对asaskevich/EventBus的包装
//
// 配置关闭时订阅静默成功、发布为空操作，
// 发布方不需要关心事件系统是否启用。
type EventBus struct {
	bus     evbus.Bus
	enabled bool
	logger  log.Logger

	published atomic.Uint64
}

// New 创建事件总线实例
func New(config *eventconfig.Config, logger log.Logger) *EventBus {
	return &EventBus{
		bus:     evbus.New(),
		enabled: config.IsEnabled(),
		logger:  logger,
	}
}

// Subscribe 实现订阅
func (eb *EventBus) Subscribe(eventType event.EventType, handler interface{}) error {
	if !eb.enabled {
		return nil
	}
	if err := eb.bus.Subscribe(string(eventType), handler); err != nil {
		return fmt.Errorf("订阅事件 %s 失败: %w", eventType, err)
	}
	return nil
}

// SubscribeAsync 实现异步订阅
// transactional 为 true 时同一事件类型的处理器串行执行
func (eb *EventBus) SubscribeAsync(eventType event.EventType, handler interface{}, transactional bool) error {
	if !eb.enabled {
		return nil
	}
	if err := eb.bus.SubscribeAsync(string(eventType), handler, transactional); err != nil {
		return fmt.Errorf("异步订阅事件 %s 失败: %w", eventType, err)
	}
	return nil
}

// Unsubscribe 取消订阅
func (eb *EventBus) Unsubscribe(eventType event.EventType, handler interface{}) error {
	if !eb.enabled {
		return nil
	}
	return eb.bus.Unsubscribe(string(eventType), handler)
}

// Publish 实现发布
func (eb *EventBus) Publish(eventType event.EventType, args ...interface{}) {
	if !eb.enabled {
		return
	}
	eb.published.Add(1)
	if eb.logger != nil {
		eb.logger.Debugf("发布事件: %s", eventType)
	}
	eb.bus.Publish(string(eventType), args...)
}

// HasCallback 检查是否有订阅者
func (eb *EventBus) HasCallback(eventType event.EventType) bool {
	if !eb.enabled {
		return false
	}
	return eb.bus.HasCallback(string(eventType))
}

// WaitAsync 等待异步处理完成
func (eb *EventBus) WaitAsync() {
	if !eb.enabled {
		return
	}
	eb.bus.WaitAsync()
}

// PublishedCount 返回已发布的事件数量
func (eb *EventBus) PublishedCount() uint64 {
	return eb.published.Load()
}
