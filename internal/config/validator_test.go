package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/mintregistry/pkg/types"
)

func TestValidateAppConfigDefaults(t *testing.T) {
	assert.NoError(t, ValidateAppConfig(nil))
	assert.NoError(t, ValidateAppConfig(&types.AppConfig{}))
}

func TestValidateAppConfigCollectsAllErrors(t *testing.T) {
	cfg := &types.AppConfig{
		Log:      &types.UserLogConfig{Level: types.StringPtr("verbose")},
		Storage:  &types.UserStorageConfig{DataRoot: types.StringPtr("  ")},
		API:      &types.UserAPIConfig{HTTPPort: types.IntPtr(70000)},
		Registry: &types.UserRegistryConfig{ContractID: types.StringPtr("a/b")},
	}

	err := ValidateAppConfig(cfg)
	require.Error(t, err)

	fields := map[string]bool{}
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var ve *ValidationError
		require.True(t, errors.As(e, &ve))
		fields[ve.Field] = true
	}
	assert.Equal(t, map[string]bool{
		"log.level":            true,
		"storage.data_root":    true,
		"api.http_port":        true,
		"registry.contract_id": true,
	}, fields)
}

func TestValidateAppConfigInMemoryIgnoresDataRoot(t *testing.T) {
	cfg := &types.AppConfig{
		Storage: &types.UserStorageConfig{DataRoot: types.StringPtr(""), InMemory: types.BoolPtr(true)},
		Log:     &types.UserLogConfig{Level: types.StringPtr("WARN")},
	}
	assert.NoError(t, ValidateAppConfig(cfg))
}
