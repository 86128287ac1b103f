package host

import (
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/mintregistry/pkg/interfaces/registry"
)

// AllEventTypes 注册表发布的全部事件类型
var AllEventTypes = []event.EventType{
	registry.EventInitialized,
	registry.EventMinted,
	registry.EventSaleStateChanged,
	registry.EventBaseURIChanged,
	registry.EventBaseExtensionChanged,
	registry.EventPriceChanged,
}

// AuditLogger 把已提交的注册表事件写入审计日志
type AuditLogger struct {
	logger log.Logger
}

// NewAuditLogger 创建审计日志订阅者
func NewAuditLogger(logger log.Logger) *AuditLogger {
	return &AuditLogger{logger: logger}
}

// Handle 事件处理函数
func (a *AuditLogger) Handle(ev registry.Event) {
	a.logger.With(
		"event_id", ev.ID,
		"event", string(ev.Type),
		"contract", ev.ContractID,
	).Infof("registry event: %+v", ev.Payload)
}

// Subscribe 异步订阅全部事件类型，同一类型内按发布顺序处理
func (a *AuditLogger) Subscribe(bus event.EventBus) error {
	for _, t := range AllEventTypes {
		if err := bus.SubscribeAsync(t, a.Handle, true); err != nil {
			return err
		}
	}
	return nil
}
