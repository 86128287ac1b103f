// Package writegate 定义写门闸接口
//
// 写门闸在检测到不可恢复的存储故障时把注册表切换为只读：
//   - 只读期间所有写入口在打开事务之前就被拒绝
//   - 只读查询不受影响
//   - 只有运维方显式调用 ExitReadOnly 才恢复写入
package writegate

import (
	"context"
	"errors"
	"time"
)

// ErrReadOnly 只读模式下的写入被拒绝
var ErrReadOnly = errors.New("write rejected: read-only mode")

// WriteGate 写门闸接口
type WriteGate interface {
	// EnterReadOnly 进入只读模式；已处于只读时保留最早的原因
	EnterReadOnly(reason string)

	// ExitReadOnly 退出只读模式
	ExitReadOnly()

	// IsReadOnly 是否处于只读模式
	IsReadOnly() bool

	// ReadOnlyReason 进入只读的原因，非只读时返回空串
	ReadOnlyReason() string

	// ReadOnlySince 进入只读的时间，非只读时返回零值
	ReadOnlySince() time.Time

	// AssertWriteAllowed 写操作前调用；只读时返回包装了 ErrReadOnly 的错误
	AssertWriteAllowed(ctx context.Context, operation string) error
}
