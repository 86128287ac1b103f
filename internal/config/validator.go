package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/weisyn/mintregistry/internal/config/registry"
	"github.com/weisyn/mintregistry/pkg/types"
)

// ValidationError 配置验证错误
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("配置验证失败 [%s]: %s", e.Field, e.Message)
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
	"fatal": true,
}

// ValidateAppConfig 启动时校验用户配置，所有问题一次性返回
//
// 只校验用户显式写出的字段；未出现的字段使用默认值，无需校验。
func ValidateAppConfig(appConfig *types.AppConfig) error {
	if appConfig == nil {
		appConfig = &types.AppConfig{}
	}
	var errs []error

	if appConfig.Log != nil && appConfig.Log.Level != nil {
		level := strings.ToLower(strings.TrimSpace(*appConfig.Log.Level))
		if !validLogLevels[level] {
			errs = append(errs, &ValidationError{
				Field:   "log.level",
				Message: fmt.Sprintf("未知日志级别 %q，可选 debug/info/warn/error/fatal", *appConfig.Log.Level),
			})
		}
	}

	if appConfig.Storage != nil && appConfig.Storage.DataRoot != nil &&
		strings.TrimSpace(*appConfig.Storage.DataRoot) == "" {
		inMemory := appConfig.Storage.InMemory != nil && *appConfig.Storage.InMemory
		if !inMemory {
			errs = append(errs, &ValidationError{
				Field:   "storage.data_root",
				Message: "数据目录不能为空字符串",
			})
		}
	}

	if appConfig.API != nil && appConfig.API.HTTPPort != nil {
		if port := *appConfig.API.HTTPPort; port < 0 || port > 65535 {
			errs = append(errs, &ValidationError{
				Field:   "api.http_port",
				Message: fmt.Sprintf("端口 %d 超出范围 0-65535", port),
			})
		}
	}

	if err := registry.New(appConfig.Registry).GetOptions().Validate(); err != nil {
		errs = append(errs, &ValidationError{
			Field:   "registry.contract_id",
			Message: err.Error(),
		})
	}

	return errors.Join(errs...)
}
