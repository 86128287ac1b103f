// Package metrics 提供 Prometheus 指标注册表
//
// 各模块把自己的指标注册到同一个注册表上，HTTP 层通过 /metrics 暴露。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	logimpl "github.com/weisyn/mintregistry/internal/core/infrastructure/log"
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/storage"
)

// ModuleInput 指标模块输入依赖
type ModuleInput struct {
	fx.In

	MemoryStore storage.MemoryStore `optional:"true"`
	Logger      log.Logger          `optional:"true"`
}

// ModuleOutput 指标模块输出
type ModuleOutput struct {
	fx.Out

	Registry   *prometheus.Registry
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// Module 返回 metrics 模块的 fx.Option
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 创建注册表并注册基础设施指标
func ProvideServices(input ModuleInput) (ModuleOutput, error) {
	logger := logimpl.NewModuleLogger(input.Logger, "metrics")
	reg := NewRegistry()

	if input.MemoryStore != nil {
		if err := RegisterCacheEntries(reg, input.MemoryStore); err != nil {
			return ModuleOutput{}, err
		}
	}
	logger.Debug("指标注册表已创建")

	return ModuleOutput{
		Registry:   reg,
		Registerer: reg,
		Gatherer:   reg,
	}, nil
}
