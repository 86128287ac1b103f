package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/weisyn/mintregistry/internal/app"
	"github.com/weisyn/mintregistry/internal/app/version"
	"github.com/weisyn/mintregistry/pkg/interfaces/registry"
	"github.com/weisyn/mintregistry/pkg/types"
)

// GlobalFlags 全局标志
type GlobalFlags struct {
	ConfigPath   string // 配置文件路径
	DataDir      string // 覆盖存储数据目录
	ContractID   string // 覆盖合约实例标识
	OutputFormat string // 输出格式
	LogLevel     string // 覆盖日志级别
}

var globalFlags GlobalFlags

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "mintregistry",
	Short: "定量铸造注册表命令行",
	Long: `mintregistry - 上限固定的编号代币注册表

本地命令直接打开数据目录执行入口，所有授权在本地用私钥签名：
  mintregistry keys new
  mintregistry init --key <hex>
  mintregistry sale flip --key <hex>
  mintregistry mint 3 --key <hex>
  mintregistry status

serve 启动 HTTP 网关，对外提供同样的入口。`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if code := registry.Kind(err); code != registry.CodeInternal {
			pterm.Error.Printf("[%s] %v\n", code, err)
		} else {
			pterm.Error.Println(err.Error())
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalFlags.ConfigPath, "config", "c", "configs/mintregistry.json", "配置文件路径")
	rootCmd.PersistentFlags().StringVar(&globalFlags.DataDir, "data-dir", "", "数据目录（覆盖配置文件）")
	rootCmd.PersistentFlags().StringVar(&globalFlags.ContractID, "contract", "", "合约实例标识（覆盖配置文件）")
	rootCmd.PersistentFlags().StringVarP(&globalFlags.OutputFormat, "output", "o", "table", "输出格式: table|json")
	rootCmd.PersistentFlags().StringVar(&globalFlags.LogLevel, "log-level", "", "日志级别（覆盖配置文件）")

	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(initCmd, mintCmd, saleCmd, setBaseURICmd, setBaseExtensionCmd, setPriceCmd)
	rootCmd.AddCommand(statusCmd, tokenCmd, walletCmd)
	rootCmd.AddCommand(serveCmd, versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResult(version.GetBuildInfo(), func() {
			fmt.Println(version.GetFullVersion())
		})
	},
}

// loadAppConfig 读取配置文件并叠加命令行覆盖
// quietLevel 非空时作为未指定 --log-level 时的日志级别
func loadAppConfig(quietLevel string) (*types.AppConfig, error) {
	cfg, err := app.LoadConfig(globalFlags.ConfigPath)
	if err != nil {
		return nil, err
	}
	if globalFlags.DataDir != "" {
		if cfg.Storage == nil {
			cfg.Storage = &types.UserStorageConfig{}
		}
		dir := globalFlags.DataDir
		cfg.Storage.DataRoot = &dir
	}
	if globalFlags.ContractID != "" {
		if cfg.Registry == nil {
			cfg.Registry = &types.UserRegistryConfig{}
		}
		id := globalFlags.ContractID
		cfg.Registry.ContractID = &id
	}
	level := globalFlags.LogLevel
	if level == "" {
		level = quietLevel
	}
	if level != "" {
		if cfg.Log == nil {
			cfg.Log = &types.UserLogConfig{}
		}
		cfg.Log.Level = &level
	}
	return cfg, nil
}

// withLocalRegistry 启动不带 API 的应用，执行 fn 后关闭
func withLocalRegistry(fn func(reg registry.Registry) error) error {
	// 本地命令默认只输出警告以上，避免淹没结果
	cfg, err := loadAppConfig("warn")
	if err != nil {
		return err
	}
	a, err := app.Start(app.WithoutAPI(), app.WithAppConfig(cfg))
	if err != nil {
		return err
	}
	runErr := fn(a.Registry())
	if err := a.Stop(); err != nil && runErr == nil {
		return fmt.Errorf("关闭注册表失败: %w", err)
	}
	return runErr
}
