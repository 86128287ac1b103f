// Package configs 内置默认配置
package configs

import _ "embed"

// 配置文件缺失时使用的默认配置
//
//go:embed mintregistry.json
var defaultConfig []byte

// Default 返回内置默认配置的副本
func Default() []byte {
	out := make([]byte, len(defaultConfig))
	copy(out, defaultConfig)
	return out
}
