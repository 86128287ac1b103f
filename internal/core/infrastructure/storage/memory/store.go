// Package memory 提供基于BigCache的内存缓存实现
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/allegro/bigcache/v3"
	memoryconfig "github.com/weisyn/mintregistry/internal/config/storage/memory"
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/log"
	storage "github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/storage"
)

// ErrStoreClosed 缓存已关闭
var ErrStoreClosed = errors.New("memory store closed")

// 确保 Store 实现了 storage.MemoryStore 接口
var _ storage.MemoryStore = (*Store)(nil)

// Store 实现了MemoryStore接口，基于BigCache提供内存缓存功能
type Store struct {
	cache  *bigcache.BigCache
	logger log.Logger
	mutex  sync.RWMutex
	closed bool
}

// New 创建一个新的BigCache内存存储实例
func New(options *memoryconfig.MemoryOptions, logger log.Logger) (*Store, error) {
	bigCacheConfig := bigcache.DefaultConfig(options.DefaultTTL)
	bigCacheConfig.Shards = options.Shards
	bigCacheConfig.MaxEntriesInWindow = options.MaxEntries
	bigCacheConfig.CleanWindow = options.CleanupInterval
	bigCacheConfig.HardMaxCacheSize = options.MaxMemoryMB()
	// 缓存条目都很短（地址字符串），小条目减少预分配
	bigCacheConfig.MaxEntrySize = 64
	bigCacheConfig.Verbose = false

	cache, err := bigcache.New(context.Background(), bigCacheConfig)
	if err != nil {
		return nil, fmt.Errorf("创建BigCache实例失败: %w", err)
	}

	return &Store{
		cache:  cache,
		logger: logger,
	}, nil
}

// Close 关闭缓存并释放资源
func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return nil
	}
	if err := s.cache.Close(); err != nil {
		return err
	}
	s.closed = true
	return nil
}

// Get 获取缓存值
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return nil, false, ErrStoreClosed
	}

	value, err := s.cache.Get(key)
	if err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			return nil, false, nil
		}
		s.logger.Warnf("获取缓存键[%s]失败: %v", key, err)
		return nil, false, err
	}
	return value, true, nil
}

// Set 设置缓存值
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}

	if err := s.cache.Set(key, value); err != nil {
		s.logger.Warnf("设置缓存键[%s]失败: %v", key, err)
		return err
	}
	return nil
}

// Delete 删除指定键的缓存
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}

	if err := s.cache.Delete(key); err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
		return err
	}
	return nil
}

// Count 获取当前缓存中的键数量
func (s *Store) Count(ctx context.Context) (int64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return 0, ErrStoreClosed
	}
	return int64(s.cache.Len()), nil
}
