// Package registry 组装注册表执行宿主
package registry

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/weisyn/mintregistry/internal/core/infrastructure/crypto/signature"
	logimpl "github.com/weisyn/mintregistry/internal/core/infrastructure/log"
	"github.com/weisyn/mintregistry/internal/core/registry/controller"
	"github.com/weisyn/mintregistry/internal/core/registry/host"
	"github.com/weisyn/mintregistry/pkg/interfaces/config"
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/writegate"
	registryintf "github.com/weisyn/mintregistry/pkg/interfaces/registry"
)

// ModuleParams 注册表模块依赖
type ModuleParams struct {
	fx.In

	Provider         config.Provider
	BadgerStore      storage.BadgerStore
	MemoryStore      storage.MemoryStore `optional:"true"`
	SignatureService *signature.SignatureService
	EventBus         event.EventBus        `optional:"true"`
	Registerer       prometheus.Registerer `optional:"true"`
	WriteGate        writegate.WriteGate   `optional:"true"`
	Logger           log.Logger            `optional:"true"`
}

// ModuleOutput 注册表模块输出
type ModuleOutput struct {
	fx.Out

	Registry registryintf.Registry
	Host     *host.Host
}

// Module 返回注册表模块
func Module() fx.Option {
	return fx.Module("registry",
		fx.Provide(ProvideServices),
		fx.Invoke(SubscribeAuditLog),
	)
}

// ProvideServices 创建执行宿主
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	opts := params.Provider.GetRegistry()
	logger := logimpl.NewModuleLogger(params.Logger, "registry").With("contract", opts.ContractID)

	h, err := host.New(host.Config{
		ContractID: opts.ContractID,
		Defaults: controller.Defaults{
			BaseURI:       opts.DefaultBaseURI,
			BaseExtension: opts.DefaultBaseExtension,
			Price:         opts.DefaultPrice,
		},
	}, host.Deps{
		Store:    params.BadgerStore,
		Cache:    params.MemoryStore,
		Verifier: params.SignatureService,
		Events:   params.EventBus,
		Metrics:  host.NewMetrics(params.Registerer),
		Gate:     params.WriteGate,
		Logger:   logger,
	})
	if err != nil {
		return ModuleOutput{}, err
	}

	logger.Infof("注册表宿主已就绪")
	return ModuleOutput{Registry: h, Host: h}, nil
}

// AuditParams 审计日志订阅依赖
type AuditParams struct {
	fx.In

	EventBus event.EventBus `optional:"true"`
	Logger   log.Logger     `optional:"true"`
}

// SubscribeAuditLog 订阅注册表事件写入审计日志
func SubscribeAuditLog(params AuditParams) error {
	if params.EventBus == nil {
		return nil
	}
	audit := host.NewAuditLogger(logimpl.NewModuleLogger(params.Logger, "audit"))
	return audit.Subscribe(params.EventBus)
}
