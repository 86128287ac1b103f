// Package writegate 提供写门闸的默认实现
package writegate

import (
	"context"
	"fmt"
	"sync"
	"time"

	wgif "github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/writegate"
)

// gateImpl WriteGate 的默认实现
type gateImpl struct {
	mu sync.RWMutex

	readOnly   bool
	reason     string
	readOnlyAt time.Time
}

var _ wgif.WriteGate = (*gateImpl)(nil)

// New 创建写门闸，初始为可写
func New() wgif.WriteGate {
	return &gateImpl{}
}

// EnterReadOnly 进入只读模式
func (g *gateImpl) EnterReadOnly(reason string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.readOnly {
		return
	}
	g.readOnly = true
	g.reason = reason
	g.readOnlyAt = time.Now()
}

// ExitReadOnly 退出只读模式
func (g *gateImpl) ExitReadOnly() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.readOnly = false
	g.reason = ""
	g.readOnlyAt = time.Time{}
}

// IsReadOnly 检查是否处于只读模式
func (g *gateImpl) IsReadOnly() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.readOnly
}

// ReadOnlyReason 返回只读模式的原因
func (g *gateImpl) ReadOnlyReason() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.reason
}

// ReadOnlySince 返回进入只读的时间
func (g *gateImpl) ReadOnlySince() time.Time {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.readOnlyAt
}

// AssertWriteAllowed 校验写操作是否允许
func (g *gateImpl) AssertWriteAllowed(ctx context.Context, operation string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.readOnly {
		return fmt.Errorf("%w: operation=%s reason=%s", wgif.ErrReadOnly, operation, g.reason)
	}
	return nil
}
