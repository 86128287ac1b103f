// Package config provides configuration provider interfaces.
package config

import (
	apiconfig "github.com/weisyn/mintregistry/internal/config/api"
	eventconfig "github.com/weisyn/mintregistry/internal/config/event"
	logconfig "github.com/weisyn/mintregistry/internal/config/log"
	registryconfig "github.com/weisyn/mintregistry/internal/config/registry"
	badgerconfig "github.com/weisyn/mintregistry/internal/config/storage/badger"
	memoryconfig "github.com/weisyn/mintregistry/internal/config/storage/memory"
)

// Provider 配置提供者接口
type Provider interface {
	// GetAppName 获取应用名称
	GetAppName() string

	// GetLog 获取日志配置
	GetLog() *logconfig.LogOptions

	// GetBadger 获取BadgerDB存储配置
	GetBadger() *badgerconfig.BadgerOptions

	// GetMemory 获取内存缓存配置
	GetMemory() *memoryconfig.MemoryOptions

	// GetEvent 获取事件配置
	GetEvent() *eventconfig.EventOptions

	// GetRegistry 获取注册表配置
	GetRegistry() *registryconfig.RegistryOptions

	// GetAPI 获取API服务配置
	GetAPI() *apiconfig.APIOptions
}
