package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/mintregistry/pkg/constants"
	"github.com/weisyn/mintregistry/pkg/types"
)

func TestProviderDefaults(t *testing.T) {
	provider := NewProvider(nil)

	assert.Equal(t, "mintregistry", provider.GetAppName())
	assert.Equal(t, "info", provider.GetLog().Level)
	assert.True(t, provider.GetEvent().Enabled)
	assert.Equal(t, "default", provider.GetRegistry().ContractID)
	assert.Equal(t, constants.DefaultPrice, provider.GetRegistry().DefaultPrice)
	assert.True(t, provider.GetAPI().HTTP.Enabled)
	assert.Greater(t, provider.GetMemory().Shards, 0)
}

func TestProviderDataDirFallback(t *testing.T) {
	t.Run("data_dir 作为存储根目录", func(t *testing.T) {
		dir := t.TempDir()
		provider := NewProvider(&types.AppConfig{DataDir: types.StringPtr(dir)})
		assert.Equal(t, filepath.Join(dir, "badger"), provider.GetBadger().Path)
	})

	t.Run("storage.data_root 优先", func(t *testing.T) {
		dir := t.TempDir()
		root := t.TempDir()
		provider := NewProvider(&types.AppConfig{
			DataDir: types.StringPtr(dir),
			Storage: &types.UserStorageConfig{DataRoot: types.StringPtr(root), InMemory: types.BoolPtr(true)},
		})
		opts := provider.GetBadger()
		assert.Equal(t, filepath.Join(root, "badger"), opts.Path)
		assert.True(t, opts.InMemory)
	})
}

func TestLoadAppConfig(t *testing.T) {
	t.Run("文件不存在使用默认配置", func(t *testing.T) {
		cfg, err := LoadAppConfig(filepath.Join(t.TempDir(), "missing.json"))
		require.NoError(t, err)
		assert.Nil(t, cfg.Registry)
	})

	t.Run("解析JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		body := `{"app_name":"drop","registry":{"contract_id":"drop-1","default_price":42},"api":{"http_port":9999}}`
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

		cfg, err := LoadAppConfig(path)
		require.NoError(t, err)
		provider := NewProvider(cfg)
		assert.Equal(t, "drop", provider.GetAppName())
		assert.Equal(t, "drop-1", provider.GetRegistry().ContractID)
		assert.Equal(t, uint64(42), provider.GetRegistry().DefaultPrice)
		assert.Equal(t, 9999, provider.GetAPI().HTTP.Port)
	})

	t.Run("非法JSON返回错误", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
		_, err := LoadAppConfig(path)
		assert.Error(t, err)
	})
}
