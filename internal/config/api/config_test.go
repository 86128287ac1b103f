package api

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weisyn/mintregistry/pkg/types"
)

func TestNew(t *testing.T) {
	t.Run("默认配置", func(t *testing.T) {
		opts := New(nil).GetOptions()
		assert.True(t, opts.HTTP.Enabled)
		assert.Equal(t, defaultHTTPHost, opts.HTTP.Host)
		assert.Equal(t, defaultHTTPPort, opts.HTTP.Port)
		assert.True(t, opts.HTTP.EnableMetrics)
		assert.True(t, opts.HTTP.EnableWebSocket)
		assert.Equal(t, defaultWriteRateLimit, opts.HTTP.WriteRateLimit)
	})

	t.Run("非正限流值被忽略", func(t *testing.T) {
		zero := 0
		opts := New(&types.UserAPIConfig{WriteRateLimit: &zero}).GetOptions()
		assert.Equal(t, defaultWriteRateLimit, opts.HTTP.WriteRateLimit)
	})

	t.Run("用户配置覆盖", func(t *testing.T) {
		enabled := false
		host := "0.0.0.0"
		port := 9090
		opts := New(&types.UserAPIConfig{HTTPEnabled: &enabled, HTTPHost: &host, HTTPPort: &port}).GetOptions()
		assert.False(t, opts.HTTP.Enabled)
		assert.Equal(t, host, opts.HTTP.Host)
		assert.Equal(t, port, opts.HTTP.Port)
		assert.Equal(t, int64(defaultMaxRequestSize), opts.HTTP.MaxRequestSize)
	})
}
