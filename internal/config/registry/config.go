// Package registry 注册表实例配置
package registry

import (
	"fmt"

	"github.com/weisyn/mintregistry/pkg/constants"
	configtypes "github.com/weisyn/mintregistry/pkg/types"
)

// RegistryOptions 注册表配置选项
type RegistryOptions struct {
	// ContractID 合约实例标识，同时是存储命名空间和签名域的一部分
	ContractID string `json:"contract_id"`

	// 初始化时写入的默认值
	DefaultBaseURI       string `json:"default_base_uri"`
	DefaultBaseExtension string `json:"default_base_extension"`
	DefaultPrice         uint64 `json:"default_price"`
}

// Config 注册表配置实现
type Config struct {
	options *RegistryOptions
}

// New 创建注册表配置实现
func New(userConfig *configtypes.UserRegistryConfig) *Config {
	options := &RegistryOptions{
		ContractID:           defaultContractID,
		DefaultBaseURI:       constants.DefaultBaseURI,
		DefaultBaseExtension: constants.DefaultBaseExtension,
		DefaultPrice:         constants.DefaultPrice,
	}
	if userConfig != nil {
		applyUserConfig(options, userConfig)
	}
	return &Config{options: options}
}

func applyUserConfig(options *RegistryOptions, userConfig *configtypes.UserRegistryConfig) {
	if userConfig.ContractID != nil {
		options.ContractID = *userConfig.ContractID
	}
	if userConfig.DefaultBaseURI != nil {
		options.DefaultBaseURI = *userConfig.DefaultBaseURI
	}
	if userConfig.DefaultBaseExtension != nil {
		options.DefaultBaseExtension = *userConfig.DefaultBaseExtension
	}
	if userConfig.DefaultPrice != nil {
		options.DefaultPrice = *userConfig.DefaultPrice
	}
}

// GetOptions 获取完整的注册表配置选项
func (c *Config) GetOptions() *RegistryOptions {
	return c.options
}

// Validate 校验配置
func (o *RegistryOptions) Validate() error {
	if o.ContractID == "" {
		return fmt.Errorf("contract_id 不能为空")
	}
	if len(o.ContractID) > maxContractIDLength {
		return fmt.Errorf("contract_id 长度超过 %d", maxContractIDLength)
	}
	for _, r := range o.ContractID {
		if r == '/' {
			return fmt.Errorf("contract_id 不能包含 '/'")
		}
	}
	return nil
}
