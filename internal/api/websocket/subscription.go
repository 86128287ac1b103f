package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/weisyn/mintregistry/internal/api/websocket/types"
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/mintregistry/pkg/interfaces/registry"
)

// SubscriptionManager 订阅管理器
//
// 每种事件类型只向事件总线注册一个处理器，再按订阅过滤分发到连接。
// 分发只做非阻塞入队，慢连接丢弃事件而不拖慢提交路径。
type SubscriptionManager struct {
	logger        log.Logger
	eventTypes    []event.EventType
	subscriptions map[string]*Subscription
	mu            sync.RWMutex
	dropped       atomic.Uint64
}

// Subscription 订阅信息
type Subscription struct {
	ID     string
	Types  map[event.EventType]bool // 空表示全部
	client *client
}

func (s *Subscription) matches(t event.EventType) bool {
	return len(s.Types) == 0 || s.Types[t]
}

// NewSubscriptionManager 创建订阅管理器并挂到事件总线上
func NewSubscriptionManager(logger log.Logger, eventBus event.EventBus, eventTypes []event.EventType) (*SubscriptionManager, error) {
	m := &SubscriptionManager{
		logger:        logger,
		eventTypes:    eventTypes,
		subscriptions: make(map[string]*Subscription),
	}
	if eventBus != nil {
		for _, t := range eventTypes {
			if err := eventBus.Subscribe(t, m.dispatch); err != nil {
				return nil, fmt.Errorf("订阅事件总线失败: %w", err)
			}
		}
	}
	return m, nil
}

// Subscribe 创建新订阅；types 为空订阅全部事件
func (m *SubscriptionManager) Subscribe(c *client, eventTypes []string) (string, error) {
	filter := make(map[event.EventType]bool, len(eventTypes))
	for _, raw := range eventTypes {
		t := event.EventType(raw)
		if !m.known(t) {
			return "", fmt.Errorf("unknown event type: %s", raw)
		}
		filter[t] = true
	}

	id := fmt.Sprintf("0x%s", uuid.New().String()[:8])

	m.mu.Lock()
	m.subscriptions[id] = &Subscription{ID: id, Types: filter, client: c}
	m.mu.Unlock()

	m.logger.Debugf("新订阅 %s (types=%v)", id, eventTypes)
	return id, nil
}

// Unsubscribe 取消订阅，只能取消本连接的订阅
func (m *SubscriptionManager) Unsubscribe(c *client, subscriptionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub, ok := m.subscriptions[subscriptionID]
	if !ok || sub.client != c {
		return false
	}
	delete(m.subscriptions, subscriptionID)
	return true
}

// CleanupByClient 清理连接的全部订阅
func (m *SubscriptionManager) CleanupByClient(c *client) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, sub := range m.subscriptions {
		if sub.client == c {
			delete(m.subscriptions, id)
			removed++
		}
	}
	return removed
}

// Dropped 因发送队列已满而丢弃的推送数
func (m *SubscriptionManager) Dropped() uint64 {
	return m.dropped.Load()
}

// Count 当前订阅数
func (m *SubscriptionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscriptions)
}

func (m *SubscriptionManager) known(t event.EventType) bool {
	for _, k := range m.eventTypes {
		if k == t {
			return true
		}
	}
	return false
}

// dispatch 事件总线回调
//
// 事件体只序列化一次，各订阅只替换外层的订阅ID。
func (m *SubscriptionManager) dispatch(ev registry.Event) {
	result, err := json.Marshal(ev)
	if err != nil {
		m.logger.Errorf("序列化事件 %s 失败: %v", ev.ID, err)
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for id, sub := range m.subscriptions {
		if !sub.matches(ev.Type) {
			continue
		}
		data, err := json.Marshal(types.Notification{
			JSONRPC: "2.0",
			Method:  types.MethodNotification,
			Params:  types.SubscriptionResult{Subscription: id, Result: json.RawMessage(result)},
		})
		if err != nil {
			m.logger.Errorf("订阅 %s 封装事件失败: %v", id, err)
			continue
		}
		if !sub.client.enqueue(data) {
			m.dropped.Add(1)
			m.logger.Warnf("订阅 %s 发送队列已满，丢弃事件 %s", id, ev.ID)
		}
	}
}
