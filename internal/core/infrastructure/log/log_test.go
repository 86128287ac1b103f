package log

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logconfig "github.com/weisyn/mintregistry/internal/config/log"
)

func consoleOptions(level string) *logconfig.LogOptions {
	opts := logconfig.New(nil).GetOptions()
	opts.Level = level
	opts.ToConsole = true
	opts.FilePath = ""
	opts.EnableCaller = false
	return opts
}

// TestInfoLog 测试信息级别日志
func TestInfoLog(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(consoleOptions("info"), &buf)
	require.NoError(t, err)

	logger.Info("测试信息日志")
	logger.Debug("不应出现的调试日志")
	_ = logger.Sync()

	out := buf.String()
	assert.Contains(t, out, "测试信息日志")
	assert.Contains(t, out, "INFO")
	assert.NotContains(t, out, "不应出现的调试日志")
}

// TestModuleLogger 测试 module 字段
func TestModuleLogger(t *testing.T) {
	var buf bytes.Buffer
	base, err := newLogger(consoleOptions("debug"), &buf)
	require.NoError(t, err)

	NewModuleLogger(base, "registry").Infof("minted %d", 3)
	_ = base.Sync()

	out := buf.String()
	assert.Contains(t, out, "minted 3")
	assert.Contains(t, out, `"module": "registry"`)
}

// TestFileOutput 测试文件输出为JSON格式
func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "mintregistry.log")
	opts := logconfig.New(nil).GetOptions()
	opts.ToConsole = false
	opts.FilePath = path

	logger, err := New(opts)
	require.NoError(t, err)
	logger.With("module", "storage", "key", 42).Warn("结构化日志测试")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "结构化日志测试", entry["message"])
	assert.Equal(t, "storage", entry["module"])
	assert.EqualValues(t, 42, entry["key"])
}

// TestNilModuleLogger nil 基础日志器不应 panic
func TestNilModuleLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		NewModuleLogger(nil, "api").Info("discarded")
	})
	assert.NotNil(t, With("module", "test"))
}
