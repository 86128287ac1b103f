package memory

import "time"

// 内存缓存默认配置值
const (
	// defaultMaxMemory 默认最大内存使用量为64MB
	// 缓存的是代币归属，总量上限一万个，64MB绰绰有余
	defaultMaxMemory = 64 << 20

	// defaultMaxEntries 窗口内最大条目数，用于 BigCache 预分配
	defaultMaxEntries = 10000

	// defaultDefaultTTL 条目生命周期
	defaultDefaultTTL = time.Hour

	// defaultShards 分片数
	defaultShards = 64

	// defaultCleanupInterval 清理间隔
	defaultCleanupInterval = 10 * time.Minute
)
