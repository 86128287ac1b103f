// Package app 组装并启动铸造注册表应用
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/weisyn/mintregistry/configs"
	"github.com/weisyn/mintregistry/pkg/interfaces/registry"
	"github.com/weisyn/mintregistry/pkg/types"
)

// ConfigPathEnv 配置文件路径环境变量，优先级高于命令行参数
const ConfigPathEnv = "MINTREGISTRY_CONFIG"

// App 应用对外接口
type App interface {
	// Registry 注册表入口，本地命令直接调用
	Registry() registry.Registry

	// Stop 停止应用
	Stop() error

	// Wait 阻塞直到收到退出信号，然后停止应用
	Wait()
}

// internalApp 应用的内部实现
type internalApp struct {
	bootstrap *Bootstrap
	registry  registry.Registry
}

// Registry 注册表入口
func (a *internalApp) Registry() registry.Registry {
	return a.registry
}

// Stop 停止应用
func (a *internalApp) Stop() error {
	// 留足时间让 BadgerDB 完成同步和关闭
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	return a.bootstrap.StopApp(ctx)
}

// Wait 等待应用收到退出信号
func (a *internalApp) Wait() {
	sig := WaitForSignal()
	fmt.Printf("\n收到信号 %v，正在优雅退出...\n", sig)

	if err := a.Stop(); err != nil {
		fmt.Printf("停止应用时出错: %v\n", err)
	}
}

// Start 加载配置并启动应用
func Start(appOptions ...Option) (App, error) {
	opts := newOptions(appOptions...)

	if opts.appConfig == nil {
		appConfig, err := loadConfigFile(configFilePath(opts.configFilePath))
		if err != nil {
			return nil, err
		}
		opts.appConfig = appConfig
	}

	if err := createDataDirectories(opts.appConfig); err != nil {
		return nil, err
	}

	return BootstrapApp(opts)
}

// LoadConfig 读取配置文件，环境变量 MINTREGISTRY_CONFIG 优先
// 命令行在启动前需要叠加参数覆盖时使用，然后通过 WithAppConfig 传入
func LoadConfig(path string) (*types.AppConfig, error) {
	return loadConfigFile(configFilePath(path))
}

// configFilePath 确定配置文件路径：环境变量 > 参数
func configFilePath(path string) string {
	if envPath := os.Getenv(ConfigPathEnv); envPath != "" {
		return envPath
	}
	return path
}

// loadConfigFile 读取 JSON 配置文件
// 路径为空或文件不存在时使用内置默认配置；文件存在但格式错误时报错
func loadConfigFile(path string) (*types.AppConfig, error) {
	data := configs.Default()
	if path != "" {
		fileData, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			fmt.Printf("配置文件 %s 不存在，使用内置默认配置\n", path)
		case err != nil:
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		default:
			data = fileData
		}
	}

	var appConfig types.AppConfig
	if err := json.Unmarshal(data, &appConfig); err != nil {
		return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}
	return &appConfig, nil
}

// createDataDirectories 根据配置创建数据目录和日志目录
func createDataDirectories(appConfig *types.AppConfig) error {
	var directories []string

	if appConfig.Storage != nil && appConfig.Storage.DataRoot != nil {
		if appConfig.Storage.InMemory == nil || !*appConfig.Storage.InMemory {
			directories = append(directories, *appConfig.Storage.DataRoot)
		}
	}
	if appConfig.Log != nil && appConfig.Log.FilePath != nil && *appConfig.Log.FilePath != "" {
		directories = append(directories, filepath.Dir(*appConfig.Log.FilePath))
	}

	for _, dir := range directories {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建目录 %s 失败: %w", dir, err)
		}
	}
	return nil
}

// WaitForSignal 等待退出信号
func WaitForSignal() os.Signal {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	return <-signals
}
