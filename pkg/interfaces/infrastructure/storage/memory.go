package storage

import (
	"context"
)

// MemoryStore 定义了进程内缓存接口
//
// 用于缓存一经写入便不再变化的数据（例如代币归属），
// 缓存未命中时调用方回源到 BadgerStore。
type MemoryStore interface {
	// Get 获取缓存值，返回值、是否存在及可能的错误
	Get(ctx context.Context, key string) (value []byte, exists bool, err error)

	// Set 设置缓存值
	Set(ctx context.Context, key string, value []byte) error

	// Delete 删除指定键的缓存
	Delete(ctx context.Context, key string) error

	// Count 获取当前缓存中的键数量
	Count(ctx context.Context) (int64, error)

	// Close 释放缓存资源
	Close() error
}
