package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/mintregistry/pkg/interfaces/registry"
	"github.com/weisyn/mintregistry/pkg/types"
)

func boolPtr(b bool) *bool { return &b }
func strPtr(s string) *string { return &s }

func TestStartInMemoryWithoutAPI(t *testing.T) {
	a, err := Start(WithoutAPI(), WithAppConfig(&types.AppConfig{
		Storage:  &types.UserStorageConfig{InMemory: boolPtr(true)},
		Log:      &types.UserLogConfig{Level: strPtr("error")},
		Registry: &types.UserRegistryConfig{ContractID: strPtr("app-test")},
	}))
	require.NoError(t, err)
	defer func() { require.NoError(t, a.Stop()) }()

	reg := a.Registry()
	require.NotNil(t, reg)
	assert.Equal(t, "app-test", reg.ContractID())

	_, err = reg.Status(context.Background())
	assert.True(t, errors.Is(err, registry.ErrNotInitialized))
}

func TestInvalidContractIDFailsStartup(t *testing.T) {
	_, err := Start(WithoutAPI(), WithAppConfig(&types.AppConfig{
		Storage:  &types.UserStorageConfig{InMemory: boolPtr(true)},
		Registry: &types.UserRegistryConfig{ContractID: strPtr("")},
	}))
	assert.Error(t, err)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("文件不存在使用默认配置", func(t *testing.T) {
		cfg, err := loadConfigFile(filepath.Join(dir, "missing.json"))
		require.NoError(t, err)
		require.NotNil(t, cfg.Registry)
		assert.Equal(t, "default", *cfg.Registry.ContractID)
	})

	t.Run("解析用户配置", func(t *testing.T) {
		path := filepath.Join(dir, "ok.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"registry":{"contract_id":"mainnet"}}`), 0o600))
		cfg, err := loadConfigFile(path)
		require.NoError(t, err)
		require.NotNil(t, cfg.Registry)
		assert.Equal(t, "mainnet", *cfg.Registry.ContractID)
	})

	t.Run("格式错误报错", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"registry":`), 0o600))
		_, err := loadConfigFile(path)
		assert.Error(t, err)
	})

	t.Run("环境变量优先", func(t *testing.T) {
		t.Setenv(ConfigPathEnv, "/etc/mintregistry.json")
		assert.Equal(t, "/etc/mintregistry.json", configFilePath("configs/mintregistry.json"))
	})
}
