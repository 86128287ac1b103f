package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/weisyn/mintregistry/internal/config/api"
	"github.com/weisyn/mintregistry/internal/config/event"
	"github.com/weisyn/mintregistry/internal/config/log"
	"github.com/weisyn/mintregistry/internal/config/registry"
	"github.com/weisyn/mintregistry/internal/config/storage/badger"
	"github.com/weisyn/mintregistry/internal/config/storage/memory"
	"github.com/weisyn/mintregistry/pkg/interfaces/config"
	"github.com/weisyn/mintregistry/pkg/types"
)

// Provider 实现配置提供者接口
type Provider struct {
	appConfig *types.AppConfig
}

// 编译时校验
var _ config.Provider = (*Provider)(nil)

// NewProvider 创建配置提供者
func NewProvider(appConfig *types.AppConfig) config.Provider {
	if appConfig == nil {
		appConfig = &types.AppConfig{}
	}
	return &Provider{
		appConfig: appConfig,
	}
}

// GetAppName 获取应用名称
func (p *Provider) GetAppName() string {
	return p.appConfig.GetAppName()
}

// GetLog 获取日志配置
func (p *Provider) GetLog() *log.LogOptions {
	return log.New(p.appConfig.Log).GetOptions()
}

// GetBadger 获取BadgerDB配置
//
// storage.data_root 未配置而顶层 data_dir 配置了时，以 data_dir 作为数据根目录
func (p *Provider) GetBadger() *badger.BadgerOptions {
	storageConfig := p.appConfig.Storage
	if (storageConfig == nil || storageConfig.DataRoot == nil) && p.appConfig.DataDir != nil {
		merged := types.UserStorageConfig{}
		if storageConfig != nil {
			merged = *storageConfig
		}
		merged.DataRoot = p.appConfig.DataDir
		storageConfig = &merged
	}
	return badger.New(storageConfig).GetOptions()
}

// GetMemory 获取内存缓存配置
func (p *Provider) GetMemory() *memory.MemoryOptions {
	return memory.New().GetOptions()
}

// GetEvent 获取事件配置
func (p *Provider) GetEvent() *event.EventOptions {
	return event.New(p.appConfig.Event).GetOptions()
}

// GetRegistry 获取注册表配置
func (p *Provider) GetRegistry() *registry.RegistryOptions {
	return registry.New(p.appConfig.Registry).GetOptions()
}

// GetAPI 获取API服务配置
func (p *Provider) GetAPI() *api.APIOptions {
	return api.New(p.appConfig.API).GetOptions()
}

// LoadAppConfig 从JSON文件加载用户配置
//
// 文件不存在时返回空配置（全部使用默认值），解析失败返回错误。
func LoadAppConfig(path string) (*types.AppConfig, error) {
	if path == "" {
		return &types.AppConfig{}, nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return &types.AppConfig{}, nil
		}
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var appConfig types.AppConfig
	if err := json.Unmarshal(data, &appConfig); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}
	return &appConfig, nil
}
