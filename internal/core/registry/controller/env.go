package controller

import (
	"github.com/weisyn/mintregistry/internal/core/registry/state"
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/mintregistry/pkg/interfaces/registry"
)

// Emitted 控制器产生的待发布事件
type Emitted struct {
	Type    event.EventType
	Payload interface{}
}

// Env 单次入口调用的执行环境
//
// 事件只在 Env 中暂存，由执行宿主在事务提交之后发布；
// 调用失败时整个 Env 被丢弃。
type Env struct {
	State *state.State
	Auth  registry.Authorizer

	events []Emitted
}

// NewEnv 创建执行环境
func NewEnv(st *state.State, auth registry.Authorizer) *Env {
	return &Env{State: st, Auth: auth}
}

func (e *Env) emit(eventType event.EventType, payload interface{}) {
	e.events = append(e.events, Emitted{Type: eventType, Payload: payload})
}

// Events 返回本次调用产生的事件
func (e *Env) Events() []Emitted {
	return e.events
}
