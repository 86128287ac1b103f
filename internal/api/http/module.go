package http

import (
	"context"
	"io"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	logimpl "github.com/weisyn/mintregistry/internal/core/infrastructure/log"
	"github.com/weisyn/mintregistry/pkg/interfaces/config"
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/crypto"
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/writegate"
	"github.com/weisyn/mintregistry/pkg/interfaces/registry"
)

// initializeGinMode 在模块加载时初始化GIN模式
func initializeGinMode() {
	gin.SetMode(gin.ReleaseMode)
	if os.Getenv("MINTREGISTRY_CLI_MODE") == "true" {
		// CLI模式下抑制GIN的控制台输出
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
	}
}

// ServerParams HTTP服务器依赖
type ServerParams struct {
	fx.In

	Lifecycle      fx.Lifecycle
	Provider       config.Provider
	Logger         log.Logger
	Registry       registry.Registry
	AddressManager crypto.AddressManager
	EventBus       event.EventBus        `optional:"true"`
	Registerer     prometheus.Registerer `optional:"true"`
	Gatherer       prometheus.Gatherer   `optional:"true"`
	WriteGate      writegate.WriteGate   `optional:"true"`
}

// NewServer 创建HTTP服务器并挂到生命周期上
// HTTP 被配置关闭时返回 nil
func NewServer(params ServerParams) (*Server, error) {
	options := params.Provider.GetAPI().HTTP
	logger := logimpl.NewModuleLogger(params.Logger, "api")
	if !options.Enabled {
		logger.Info("HTTP API在配置中被禁用")
		return nil, nil
	}

	server, err := New(options, Deps{
		Registry:   params.Registry,
		Addresses:  params.AddressManager,
		EventBus:   params.EventBus,
		Registerer: params.Registerer,
		Gatherer:   params.Gatherer,
		WriteGate:  params.WriteGate,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return server.Start()
		},
		OnStop: func(ctx context.Context) error {
			return server.Stop(ctx)
		},
	})
	return server, nil
}

// Module 返回HTTP服务模块
func Module() fx.Option {
	return fx.Options(
		fx.Invoke(initializeGinMode),
		fx.Provide(NewServer),
	)
}
