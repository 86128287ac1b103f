package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"

	"github.com/weisyn/mintregistry/internal/api"
	config "github.com/weisyn/mintregistry/internal/config"
	"github.com/weisyn/mintregistry/internal/core/infrastructure/crypto"
	"github.com/weisyn/mintregistry/internal/core/infrastructure/event"
	log "github.com/weisyn/mintregistry/internal/core/infrastructure/log"
	"github.com/weisyn/mintregistry/internal/core/infrastructure/metrics"
	"github.com/weisyn/mintregistry/internal/core/infrastructure/storage"
	"github.com/weisyn/mintregistry/internal/core/infrastructure/writegate"
	registrymodule "github.com/weisyn/mintregistry/internal/core/registry"
	configintf "github.com/weisyn/mintregistry/pkg/interfaces/config"
	"github.com/weisyn/mintregistry/pkg/interfaces/registry"
)

// startupTimeout 启动超时（包括打开 BadgerDB）
const startupTimeout = 60 * time.Second

// Bootstrap 应用引导程序
type Bootstrap struct {
	opts  *options
	fxApp *fx.App
}

// NewBootstrap 创建引导程序
func NewBootstrap(opts *options) *Bootstrap {
	return &Bootstrap{
		opts: opts,
	}
}

// SetupInfrastructureLayer 设置基础设施层模块
func (b *Bootstrap) SetupInfrastructureLayer() []fx.Option {
	return []fx.Option{
		fx.Provide(func() configintf.AppOptions { return b.opts }),
		config.Module(), // 1. 配置(不依赖其他)
		log.Module(),    // 2. 日志(依赖配置)
		crypto.Module(), // 3. 密码学
	}
}

// SetupCommunicationLayer 设置事件与存储模块
func (b *Bootstrap) SetupCommunicationLayer() []fx.Option {
	return []fx.Option{
		event.Module(),   // 事件(依赖配置和日志)
		storage.Module(), // 存储(依赖配置和日志)
		metrics.Module(), // 指标(依赖存储的缓存)
		writegate.Module(),
	}
}

// SetupBusinessLayer 设置注册表模块
func (b *Bootstrap) SetupBusinessLayer() []fx.Option {
	return []fx.Option{
		registrymodule.Module(),
	}
}

// SetupApplicationLayer 设置应用层模块
func (b *Bootstrap) SetupApplicationLayer() []fx.Option {
	var modules []fx.Option
	if b.opts.enableAPI {
		modules = append(modules, api.Module())
	}
	return modules
}

// SetupModules 按依赖顺序设置所有模块
func (b *Bootstrap) SetupModules() []fx.Option {
	var allModules []fx.Option
	allModules = append(allModules, b.SetupInfrastructureLayer()...)
	allModules = append(allModules, b.SetupCommunicationLayer()...)
	allModules = append(allModules, b.SetupBusinessLayer()...)
	allModules = append(allModules, b.SetupApplicationLayer()...)
	return allModules
}

// CreateFxApp 创建fx应用，extra 用于取出容器中的实例
func (b *Bootstrap) CreateFxApp(extra ...fx.Option) error {
	appOptions := []fx.Option{
		fx.Options(b.SetupModules()...),
		fx.NopLogger,
	}
	appOptions = append(appOptions, extra...)

	b.fxApp = fx.New(appOptions...)
	if err := b.fxApp.Err(); err != nil {
		return fmt.Errorf("依赖注入失败: %w", err)
	}
	return nil
}

// StartApp 启动应用程序
func (b *Bootstrap) StartApp(ctx context.Context) error {
	if err := b.fxApp.Start(ctx); err != nil {
		return fmt.Errorf("启动应用失败: %w", err)
	}
	return nil
}

// StopApp 停止应用程序
func (b *Bootstrap) StopApp(ctx context.Context) error {
	if err := b.fxApp.Stop(ctx); err != nil {
		return fmt.Errorf("停止应用失败: %w", err)
	}
	return nil
}

// BootstrapApp 执行完整的引导过程并返回应用实例
func BootstrapApp(opts *options) (App, error) {
	bootstrap := NewBootstrap(opts)

	var reg registry.Registry
	if err := bootstrap.CreateFxApp(fx.Populate(&reg)); err != nil {
		return nil, fmt.Errorf("创建应用失败: %w", err)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()
	if err := bootstrap.StartApp(startupCtx); err != nil {
		return nil, err
	}

	return &internalApp{bootstrap: bootstrap, registry: reg}, nil
}
