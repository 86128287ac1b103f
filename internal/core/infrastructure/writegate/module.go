package writegate

import (
	"go.uber.org/fx"

	logimpl "github.com/weisyn/mintregistry/internal/core/infrastructure/log"
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/log"
	wgif "github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/writegate"
)

// ModuleInput WriteGate 模块依赖
type ModuleInput struct {
	fx.In

	Logger log.Logger `optional:"true"`
}

// ModuleOutput WriteGate 模块输出
type ModuleOutput struct {
	fx.Out

	WriteGate wgif.WriteGate
}

// Module 返回 WriteGate 模块
func Module() fx.Option {
	return fx.Module("writegate",
		fx.Provide(ProvideWriteGate),
	)
}

// ProvideWriteGate 每个容器一个门闸实例，不使用全局单例
func ProvideWriteGate(input ModuleInput) ModuleOutput {
	logimpl.NewModuleLogger(input.Logger, "writegate").Debug("写门闸已创建")
	return ModuleOutput{WriteGate: New()}
}
