// Package event 提供事件管理功能
package event

import (
	"context"

	"go.uber.org/fx"

	eventconfig "github.com/weisyn/mintregistry/internal/config/event"
	logimpl "github.com/weisyn/mintregistry/internal/core/infrastructure/log"
	"github.com/weisyn/mintregistry/pkg/interfaces/config"
	eventInterface "github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/log"
)

// ModuleInput 事件模块输入依赖
type ModuleInput struct {
	fx.In

	Provider  config.Provider // 配置提供者
	Logger    log.Logger      `optional:"true"` // 日志记录器（可选）
	Lifecycle fx.Lifecycle    // 生命周期管理
}

// ModuleOutput 事件模块输出服务
type ModuleOutput struct {
	fx.Out

	EventBus eventInterface.EventBus // 基础事件总线
}

// Module 返回事件模块
func Module() fx.Option {
	return fx.Module("event",
		fx.Provide(
			func(input ModuleInput) ModuleOutput {
				logger := logimpl.NewModuleLogger(input.Logger, "event")
				bus := New(eventconfig.NewFromOptions(input.Provider.GetEvent()), logger)

				// 停止时等待异步处理器执行完，避免丢失提交后的事件
				input.Lifecycle.Append(fx.Hook{
					OnStop: func(context.Context) error {
						bus.WaitAsync()
						logger.Infof("事件总线已停止，累计发布 %d 个事件", bus.PublishedCount())
						return nil
					},
				})

				return ModuleOutput{EventBus: bus}
			},
		),
	)
}
