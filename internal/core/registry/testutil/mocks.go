package testutil

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/storage"
)

// 确保 MemKV 实现了 storage.BadgerStore 接口
var _ storage.BadgerStore = (*MemKV)(nil)

// errReadOnly 只读事务中写入
var errReadOnly = errors.New("read-only transaction")

// MemKV 基于 map 的事务型键值存储
//
// 写事务在副本上执行，fn 成功才替换原 map，语义与 BadgerStore 一致。
// 属性测试需要大量独立实例，用它代替 BadgerDB。
type MemKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemKV 创建空存储
func NewMemKV() *MemKV {
	return &MemKV{data: make(map[string][]byte)}
}

// Close 无操作
func (m *MemKV) Close() error { return nil }

// Get 获取值，不存在返回 nil, nil
func (m *MemKV) Get(_ context.Context, key []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneBytes(m.data[string(key)]), nil
}

// Set 写入值
func (m *MemKV) Set(_ context.Context, key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[string(key)] = cloneBytes(value)
	return nil
}

// Exists 检查键是否存在
func (m *MemKV) Exists(_ context.Context, key []byte) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[string(key)]
	return ok, nil
}

// PrefixScan 按前缀扫描
func (m *MemKV) PrefixScan(_ context.Context, prefix []byte) (map[string][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]byte)
	for k, v := range m.data {
		if strings.HasPrefix(k, string(prefix)) {
			out[k] = cloneBytes(v)
		}
	}
	return out, nil
}

// RunInTransaction 在副本上执行 fn，成功后提交
func (m *MemKV) RunInTransaction(ctx context.Context, fn func(tx storage.BadgerTransaction) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	working := make(map[string][]byte, len(m.data))
	for k, v := range m.data {
		working[k] = v
	}
	if err := fn(&memTx{data: working}); err != nil {
		return err
	}
	m.data = working
	return nil
}

// View 在只读事务中执行 fn
func (m *MemKV) View(ctx context.Context, fn func(tx storage.BadgerTransaction) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(&memTx{data: m.data, readOnly: true})
}

// Len 返回键数量
func (m *MemKV) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// Snapshot 返回全部数据的副本，用于比较调用前后的状态
func (m *MemKV) Snapshot() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.data))
	for k, v := range m.data {
		out[k] = string(v)
	}
	return out
}

type memTx struct {
	data     map[string][]byte
	readOnly bool
}

func (t *memTx) Get(key []byte) ([]byte, error) {
	return cloneBytes(t.data[string(key)]), nil
}

func (t *memTx) Set(key, value []byte) error {
	if t.readOnly {
		return errReadOnly
	}
	t.data[string(key)] = cloneBytes(value)
	return nil
}

func (t *memTx) Delete(key []byte) error {
	if t.readOnly {
		return errReadOnly
	}
	delete(t.data, string(key))
	return nil
}

func (t *memTx) Exists(key []byte) (bool, error) {
	_, ok := t.data[string(key)]
	return ok, nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
