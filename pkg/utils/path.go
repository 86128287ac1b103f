// Package utils provides path manipulation utility functions.
package utils

import (
	"os"
	"path/filepath"
)

// homeEnv 覆盖数据根目录的环境变量
const homeEnv = "MINTREGISTRY_HOME"

// GetHomeDir 返回相对数据路径的解析基准目录
// 优先使用环境变量，其次使用当前工作目录
func GetHomeDir() string {
	if home := os.Getenv(homeEnv); home != "" {
		return home
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// ResolveDataPath 解析数据目录路径为绝对路径
// 如果path已经是绝对路径，直接返回
// 如果是相对路径，基于 GetHomeDir 解析
func ResolveDataPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(GetHomeDir(), path)
}

// EnsureDir 确保目录存在，如果不存在则创建
func EnsureDir(path string) error {
	//nolint:gosec // G301: 目录需要用户可读权限，0755 是合理的
	return os.MkdirAll(path, 0755)
}
