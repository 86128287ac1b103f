package event

import (
	"testing"

	"github.com/stretchr/testify/assert"

	configtypes "github.com/weisyn/mintregistry/pkg/types"
)

// TestNew 测试配置创建
func TestNew(t *testing.T) {
	t.Run("创建默认配置", func(t *testing.T) {
		config := New(nil)
		assert.NotNil(t, config.GetOptions())
		assert.True(t, config.IsEnabled())
	})

	t.Run("用户关闭事件系统", func(t *testing.T) {
		disabled := false
		config := New(&configtypes.UserEventConfig{Enabled: &disabled})
		assert.False(t, config.IsEnabled())
	})
}
