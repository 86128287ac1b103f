// Package storage 提供存储管理功能
package storage

import (
	"context"

	badgerconfig "github.com/weisyn/mintregistry/internal/config/storage/badger"
	"github.com/weisyn/mintregistry/internal/core/infrastructure/log"
	"github.com/weisyn/mintregistry/internal/core/infrastructure/storage/badger"
	"github.com/weisyn/mintregistry/internal/core/infrastructure/storage/memory"
	"github.com/weisyn/mintregistry/pkg/interfaces/config"
	logInterface "github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/log"
	storageInterface "github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/storage"
	"go.uber.org/fx"
)

// ModuleParams 定义存储模块的依赖参数
type ModuleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Provider  config.Provider     // 配置提供者
	Logger    logInterface.Logger // 日志记录器
}

// ModuleOutput 定义存储模块的输出结构
type ModuleOutput struct {
	fx.Out

	BadgerStore storageInterface.BadgerStore // BadgerDB存储（必需，失败即错误）
	MemoryStore storageInterface.MemoryStore // 内存缓存
}

// Module 返回存储模块
func Module() fx.Option {
	return fx.Module("storage",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 创建存储服务并注册关闭钩子
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	logger := log.NewModuleLogger(params.Logger, "storage")

	badgerStore, err := badger.New(badgerconfig.NewFromOptions(params.Provider.GetBadger()), logger)
	if err != nil {
		return ModuleOutput{}, err
	}

	memoryStore, err := memory.New(params.Provider.GetMemory(), logger)
	if err != nil {
		_ = badgerStore.Close()
		return ModuleOutput{}, err
	}

	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("正在关闭存储服务...")
			if err := memoryStore.Close(); err != nil {
				logger.Warnf("关闭内存缓存失败: %v", err)
			}
			return badgerStore.Close()
		},
	})

	return ModuleOutput{
		BadgerStore: badgerStore,
		MemoryStore: memoryStore,
	}, nil
}
