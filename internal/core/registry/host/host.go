// Package host 注册表的进程内执行宿主
//
// 宿主把控制器放进存储事务里运行：
// - 写入口串行执行，每次调用对应一个读写事务，控制器返回错误则整体丢弃
// - 同一事务内记录已使用的授权证明
// - 提交之后发布事件、更新指标、回填归属缓存
// - 只读查询走只读事务，不获取写锁
package host

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/weisyn/mintregistry/internal/core/registry/auth"
	"github.com/weisyn/mintregistry/internal/core/registry/controller"
	"github.com/weisyn/mintregistry/internal/core/registry/state"
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/writegate"
	"github.com/weisyn/mintregistry/pkg/interfaces/registry"
	"github.com/weisyn/mintregistry/pkg/types"
)

// 确保 Host 实现了 registry.Registry 接口
var _ registry.Registry = (*Host)(nil)

// Config 宿主配置
type Config struct {
	ContractID string
	Defaults   controller.Defaults
}

// Deps 宿主依赖，Cache/Events/Metrics/Gate/Logger 可为 nil
type Deps struct {
	Store    storage.BadgerStore
	Cache    storage.MemoryStore
	Verifier auth.Verifier
	Events   event.EventBus
	Metrics  *Metrics
	Gate     writegate.WriteGate
	Logger   log.Logger
}

// Host 注册表执行宿主
type Host struct {
	contractID string
	ns         state.Namespace
	ctrl       *controller.Controller

	store    storage.BadgerStore
	cache    storage.MemoryStore
	verifier auth.Verifier
	events   event.EventBus
	metrics  *Metrics
	gate     writegate.WriteGate
	logger   log.Logger

	// mu 串行化写入口
	mu sync.Mutex
}

// New 创建执行宿主
func New(cfg Config, deps Deps) (*Host, error) {
	if cfg.ContractID == "" {
		return nil, fmt.Errorf("%w: empty contract id", registry.ErrInvalidArgument)
	}
	if deps.Store == nil || deps.Verifier == nil {
		return nil, errors.New("host requires a store and a signature verifier")
	}
	return &Host{
		contractID: cfg.ContractID,
		ns:         state.NewNamespace(cfg.ContractID),
		ctrl:       controller.New(cfg.Defaults),
		store:      deps.Store,
		cache:      deps.Cache,
		verifier:   deps.Verifier,
		events:     deps.Events,
		metrics:    deps.Metrics,
		gate:       deps.Gate,
		logger:     deps.Logger,
	}, nil
}

// ContractID 合约实例标识
func (h *Host) ContractID() string {
	return h.contractID
}

// invoke 在一个读写事务中执行入口
func (h *Host) invoke(ctx context.Context, method string, args []string, authz *types.Authorization, fn func(env *controller.Env) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	start := time.Now()
	var nonce uint64
	if authz != nil {
		nonce = authz.Nonce
	}
	inv := types.NewInvocation(h.contractID, method, nonce, args...)

	if h.gate != nil {
		if err := h.gate.AssertWriteAllowed(ctx, method); err != nil {
			if errors.Is(err, writegate.ErrReadOnly) {
				err = fmt.Errorf("%w: %v", registry.ErrReadOnly, err)
			}
			h.metrics.observeInvocation(method, registry.Kind(err), time.Since(start).Seconds())
			h.logDebug("%s 被写门闸拒绝: %v", method, err)
			return err
		}
	}

	var emitted []controller.Emitted
	err := h.store.RunInTransaction(ctx, func(tx storage.BadgerTransaction) error {
		st := state.New(tx, h.ns)
		authorizer := auth.NewSignatureAuthorizer(h.verifier, st, inv, authz)
		env := controller.NewEnv(st, authorizer)

		if err := fn(env); err != nil {
			return err
		}
		for _, proofID := range authorizer.Consumed() {
			if err := st.MarkProofConsumed(proofID); err != nil {
				return err
			}
		}
		emitted = env.Events()
		return nil
	})

	result := "ok"
	if err != nil {
		result = registry.Kind(err)
	}
	h.metrics.observeInvocation(method, result, time.Since(start).Seconds())

	if err != nil {
		if result == registry.CodeInternal || result == registry.CodeCorruptState {
			h.logError("%s 执行失败: %v", method, err)
		} else {
			h.logDebug("%s 被拒绝: %v", method, err)
		}
		if result == registry.CodeCorruptState && h.gate != nil {
			// 状态已无法解码，停止写入直到人工处理
			h.gate.EnterReadOnly(fmt.Sprintf("%s: %v", method, err))
			h.logError("存储状态损坏，注册表已切换为只读")
		}
		return err
	}

	h.afterCommit(ctx, emitted)
	h.logInfo("%s 已提交 (nonce=%d, events=%d)", method, nonce, len(emitted))
	return nil
}

// afterCommit 提交之后的副作用，失败只记录日志
func (h *Host) afterCommit(ctx context.Context, emitted []controller.Emitted) {
	for _, e := range emitted {
		switch p := e.Payload.(type) {
		case registry.InitializedPayload:
			h.metrics.recordMinted(len(p.Reserved), uint32(len(p.Reserved)))
			h.metrics.recordSaleActive(false)
			h.cacheOwners(ctx, p.Owner, p.Reserved)
		case registry.MintedPayload:
			h.metrics.recordMinted(len(p.TokenIDs), p.TotalSupply)
			h.cacheOwners(ctx, p.To, p.TokenIDs)
		case registry.SaleStateChangedPayload:
			h.metrics.recordSaleActive(p.SaleActive)
		}

		if h.events != nil {
			h.events.Publish(e.Type, registry.Event{
				ID:         uuid.NewString(),
				Type:       e.Type,
				ContractID: h.contractID,
				Payload:    e.Payload,
			})
		}
	}
}

// Initialize 安装合约
func (h *Host) Initialize(ctx context.Context, owner string, authz *types.Authorization) error {
	return h.invoke(ctx, types.MethodInit, []string{owner}, authz, func(env *controller.Env) error {
		return h.ctrl.Initialize(env, owner)
	})
}

// Mint 公开铸造
func (h *Host) Mint(ctx context.Context, to string, numTokens uint32, authz *types.Authorization) ([]uint32, error) {
	var ids []uint32
	args := []string{to, strconv.FormatUint(uint64(numTokens), 10)}
	err := h.invoke(ctx, types.MethodMint, args, authz, func(env *controller.Env) error {
		var err error
		ids, err = h.ctrl.Mint(env, to, numTokens)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// FlipSaleState 切换销售开关
func (h *Host) FlipSaleState(ctx context.Context, caller string, authz *types.Authorization) (bool, error) {
	var active bool
	err := h.invoke(ctx, types.MethodFlipSaleState, []string{caller}, authz, func(env *controller.Env) error {
		var err error
		active, err = h.ctrl.FlipSaleState(env, caller)
		return err
	})
	return active, err
}

// SetBaseURI 覆盖 BaseUri
func (h *Host) SetBaseURI(ctx context.Context, baseURI string, authz *types.Authorization) error {
	return h.invoke(ctx, types.MethodSetBaseURI, []string{baseURI}, authz, func(env *controller.Env) error {
		return h.ctrl.SetBaseURI(env, baseURI)
	})
}

// SetBaseExtension 覆盖 BaseExtension
func (h *Host) SetBaseExtension(ctx context.Context, baseExtension string, authz *types.Authorization) error {
	return h.invoke(ctx, types.MethodSetBaseExtension, []string{baseExtension}, authz, func(env *controller.Env) error {
		return h.ctrl.SetBaseExtension(env, baseExtension)
	})
}

// SetPrice 覆盖价格
func (h *Host) SetPrice(ctx context.Context, price uint64, authz *types.Authorization) error {
	args := []string{strconv.FormatUint(price, 10)}
	return h.invoke(ctx, types.MethodSetPrice, args, authz, func(env *controller.Env) error {
		return h.ctrl.SetPrice(env, price)
	})
}

// Status 状态快照
func (h *Host) Status(ctx context.Context) (*types.RegistryStatus, error) {
	var status *types.RegistryStatus
	err := h.view(ctx, func(st *state.State) error {
		var err error
		status, err = controller.Status(st)
		return err
	})
	return status, err
}

// Token 代币归属与 URI
func (h *Host) Token(ctx context.Context, tokenID uint32) (*types.TokenInfo, error) {
	owner, cached := h.cachedOwner(ctx, tokenID)

	info := &types.TokenInfo{TokenID: tokenID, Owner: owner}
	err := h.view(ctx, func(st *state.State) error {
		uri, err := controller.TokenURI(st, tokenID)
		if err != nil {
			return err
		}
		info.URI = uri
		if !cached {
			if info.Owner, err = controller.OwnerOf(st, tokenID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !cached {
		h.cacheOwners(ctx, info.Owner, []uint32{tokenID})
	}
	return info, nil
}

// MintedBy 地址累计铸造数量
func (h *Host) MintedBy(ctx context.Context, address string) (uint32, error) {
	var minted uint32
	err := h.view(ctx, func(st *state.State) error {
		var err error
		minted, err = controller.MintedBy(st, address)
		return err
	})
	return minted, err
}

func (h *Host) view(ctx context.Context, fn func(st *state.State) error) error {
	return h.store.View(ctx, func(tx storage.BadgerTransaction) error {
		return fn(state.New(tx, h.ns))
	})
}

func (h *Host) logInfo(format string, args ...interface{}) {
	if h.logger != nil {
		h.logger.Infof(format, args...)
	}
}

func (h *Host) logDebug(format string, args ...interface{}) {
	if h.logger != nil {
		h.logger.Debugf(format, args...)
	}
}

func (h *Host) logError(format string, args ...interface{}) {
	if h.logger != nil {
		h.logger.Errorf(format, args...)
	}
}
