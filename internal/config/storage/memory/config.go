package memory

import "time"

// MemoryOptions 内存缓存配置选项
// 对应 BigCache 的窗口与分片参数
type MemoryOptions struct {
	// === 基础配置 ===
	MaxMemory  int64         `json:"max_memory"`  // 最大内存使用量（字节）
	MaxEntries int           `json:"max_entries"` // 窗口内最大条目数
	DefaultTTL time.Duration `json:"default_ttl"` // 条目生命周期
	Shards     int           `json:"shards"`      // 分片数，必须是2的幂

	// === 清理配置 ===
	CleanupInterval time.Duration `json:"cleanup_interval"` // 清理间隔
}

// Config 内存缓存配置实现
type Config struct {
	options *MemoryOptions
}

// New 创建内存缓存配置实现
func New() *Config {
	return &Config{
		options: createDefaultMemoryOptions(),
	}
}

// createDefaultMemoryOptions 创建默认内存缓存配置
func createDefaultMemoryOptions() *MemoryOptions {
	return &MemoryOptions{
		MaxMemory:       defaultMaxMemory,
		MaxEntries:      defaultMaxEntries,
		DefaultTTL:      defaultDefaultTTL,
		Shards:          defaultShards,
		CleanupInterval: defaultCleanupInterval,
	}
}

// GetOptions 获取完整的内存缓存配置选项
func (c *Config) GetOptions() *MemoryOptions {
	return c.options
}

// MaxMemoryMB BigCache 的 HardMaxCacheSize 以MB为单位
func (o *MemoryOptions) MaxMemoryMB() int {
	return int(o.MaxMemory >> 20)
}
