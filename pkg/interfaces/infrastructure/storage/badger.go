// Package storage 定义铸造注册表使用的键值存储接口
//
// 💾 **BadgerDB存储服务 (BadgerDB Storage Service)**
//
// 注册表的全部持久状态保存在一个带命名空间的扁平键值空间中：
// - 每次入口调用对应一个读写事务，成功提交、失败丢弃
// - 只读查询使用只读事务，不阻塞写入
// - 键不存在时 Get 返回 nil 值和 nil 错误，调用方据此区分"从未写入"
package storage

import (
	"context"
)

// BadgerStore 定义了键值存储的应用接口
type BadgerStore interface {
	// Close 关闭BadgerDB数据库连接
	Close() error

	// Get 获取指定键的值
	// 如果键不存在，返回nil值和nil错误
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Set 设置键值对
	Set(ctx context.Context, key, value []byte) error

	// Exists 检查键是否存在
	Exists(ctx context.Context, key []byte) (bool, error)

	// PrefixScan 按前缀扫描键值对
	// 返回map的键为键的字符串表示
	PrefixScan(ctx context.Context, prefix []byte) (map[string][]byte, error)

	// RunInTransaction 在读写事务中执行操作
	// fn 返回错误时事务被丢弃，没有任何写入生效；否则提交
	RunInTransaction(ctx context.Context, fn func(tx BadgerTransaction) error) error

	// View 在只读事务中执行操作
	// 只读事务内的 Set/Delete 返回错误
	View(ctx context.Context, fn func(tx BadgerTransaction) error) error
}

// BadgerTransaction 定义了键值存储事务操作接口
// 事务保证所有操作要么全部成功，要么全部失败
type BadgerTransaction interface {
	// Get 获取指定键的值
	// 如果键不存在，返回nil值和nil错误
	Get(key []byte) ([]byte, error)

	// Set 设置键值对
	Set(key, value []byte) error

	// Delete 删除指定键的值
	Delete(key []byte) error

	// Exists 检查键是否存在
	Exists(key []byte) (bool, error)
}
