// Package controller 铸造注册表的业务规则
//
// 每个入口按固定顺序执行：授权校验、最少状态读取与前置条件校验、写入。
// 任何一步失败立即返回，此前不发生写入，宿主丢弃整个事务。
package controller

import (
	"fmt"

	"github.com/weisyn/mintregistry/pkg/constants"
	"github.com/weisyn/mintregistry/pkg/interfaces/registry"
)

// Defaults 初始化时写入的默认值
type Defaults struct {
	BaseURI       string
	BaseExtension string
	Price         uint64
}

// Controller 注册表控制器，本身无状态
type Controller struct {
	defaults Defaults
}

// New 创建控制器
func New(defaults Defaults) *Controller {
	return &Controller{defaults: defaults}
}

// Initialize 安装合约，并把编号 1..TokensReserved 铸造给 owner
func (c *Controller) Initialize(env *Env, owner string) error {
	if err := env.Auth.RequireAuth(owner); err != nil {
		return err
	}

	st := env.State
	if _, found, err := st.Owner(); err != nil {
		return err
	} else if found {
		return registry.ErrAlreadyInitialized
	}

	if err := st.SetOwner(owner); err != nil {
		return err
	}
	if err := st.SetSaleActive(false); err != nil {
		return err
	}
	if err := st.SetTotalSupply(0); err != nil {
		return err
	}
	if err := st.SetBaseURI(c.defaults.BaseURI); err != nil {
		return err
	}
	if err := st.SetBaseExtension(c.defaults.BaseExtension); err != nil {
		return err
	}
	if err := st.SetPrice(c.defaults.Price); err != nil {
		return err
	}

	reserved := make([]uint32, 0, constants.TokensReserved)
	for id := uint32(1); id <= constants.TokensReserved; id++ {
		if err := mintToken(env, owner, id); err != nil {
			return err
		}
		reserved = append(reserved, id)
	}
	if err := st.SetTotalSupply(constants.TokensReserved); err != nil {
		return err
	}

	env.emit(registry.EventInitialized, registry.InitializedPayload{Owner: owner, Reserved: reserved})
	return nil
}

// Mint 公开铸造，返回分配的代币编号
//
// 校验顺序：授权、销售开关、单次上限、地址累计上限、总量上限。
// numTokens 为 0 时通过全部校验后不做任何写入。
func (c *Controller) Mint(env *Env, to string, numTokens uint32) ([]uint32, error) {
	if err := env.Auth.RequireAuth(to); err != nil {
		return nil, err
	}

	st := env.State
	saleActive, found, err := st.SaleActive()
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, registry.ErrNotInitialized
	}
	if !saleActive {
		return nil, registry.ErrSaleNotActive
	}

	if numTokens > constants.MaxMintPerTx {
		return nil, fmt.Errorf("%w: %d > %d", registry.ErrExceedsPerTransactionLimit, numTokens, constants.MaxMintPerTx)
	}

	minted, _, err := st.MintedPerWallet(to)
	if err != nil {
		return nil, err
	}
	if uint64(minted)+uint64(numTokens) > uint64(constants.MaxMintPerTx) {
		return nil, fmt.Errorf("%w: %d + %d > %d", registry.ErrExceedsWalletQuota, minted, numTokens, constants.MaxMintPerTx)
	}

	supply, found, err := st.TotalSupply()
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, registry.ErrNotInitialized
	}
	if uint64(supply)+uint64(numTokens) > uint64(constants.MaxTokens) {
		return nil, fmt.Errorf("%w: %d + %d > %d", registry.ErrSupplyExhausted, supply, numTokens, constants.MaxTokens)
	}

	if numTokens == 0 {
		return []uint32{}, nil
	}

	ids := make([]uint32, 0, numTokens)
	for i := uint32(1); i <= numTokens; i++ {
		id := supply + i
		if err := mintToken(env, to, id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	// mintToken 已逐个累加 MintedPerWallet，这里只需推进总量
	if err := st.SetTotalSupply(supply + numTokens); err != nil {
		return nil, err
	}

	env.emit(registry.EventMinted, registry.MintedPayload{To: to, TokenIDs: ids, TotalSupply: supply + numTokens})
	return ids, nil
}

// FlipSaleState 所有者切换销售开关，返回新值
func (c *Controller) FlipSaleState(env *Env, caller string) (bool, error) {
	if err := env.Auth.RequireAuth(caller); err != nil {
		return false, err
	}

	st := env.State
	owner, err := requireOwner(env)
	if err != nil {
		return false, err
	}
	if caller != owner {
		return false, fmt.Errorf("%w: caller is not the owner", registry.ErrUnauthorized)
	}

	active, found, err := st.SaleActive()
	if err != nil {
		return false, err
	}
	if !found {
		return false, registry.ErrNotInitialized
	}
	if err := st.SetSaleActive(!active); err != nil {
		return false, err
	}

	env.emit(registry.EventSaleStateChanged, registry.SaleStateChangedPayload{SaleActive: !active})
	return !active, nil
}

// SetBaseURI 所有者覆盖 BaseUri
func (c *Controller) SetBaseURI(env *Env, baseURI string) error {
	if err := requireOwnerAuth(env); err != nil {
		return err
	}
	if err := env.State.SetBaseURI(baseURI); err != nil {
		return err
	}
	env.emit(registry.EventBaseURIChanged, registry.ValueChangedPayload{Value: baseURI})
	return nil
}

// SetBaseExtension 所有者覆盖 BaseExtension
func (c *Controller) SetBaseExtension(env *Env, baseExtension string) error {
	if err := requireOwnerAuth(env); err != nil {
		return err
	}
	if err := env.State.SetBaseExtension(baseExtension); err != nil {
		return err
	}
	env.emit(registry.EventBaseExtensionChanged, registry.ValueChangedPayload{Value: baseExtension})
	return nil
}

// SetPrice 所有者覆盖价格，不设上下限
func (c *Controller) SetPrice(env *Env, price uint64) error {
	if err := requireOwnerAuth(env); err != nil {
		return err
	}
	if err := env.State.SetPrice(price); err != nil {
		return err
	}
	env.emit(registry.EventPriceChanged, registry.ValueChangedPayload{Value: fmt.Sprintf("%d", price)})
	return nil
}

// mintToken 唯一的归属分配原语：写入归属并累加地址计数，不做额度校验
func mintToken(env *Env, to string, tokenID uint32) error {
	st := env.State
	if _, found, err := st.TokenOwner(tokenID); err != nil {
		return err
	} else if found {
		return fmt.Errorf("%w: token %d already assigned", registry.ErrCorruptState, tokenID)
	}
	if err := st.SetTokenOwner(tokenID, to); err != nil {
		return err
	}

	minted, _, err := st.MintedPerWallet(to)
	if err != nil {
		return err
	}
	return st.SetMintedPerWallet(to, minted+1)
}

func requireOwner(env *Env) (string, error) {
	owner, found, err := env.State.Owner()
	if err != nil {
		return "", err
	}
	if !found {
		return "", registry.ErrNotInitialized
	}
	return owner, nil
}

func requireOwnerAuth(env *Env) error {
	owner, err := requireOwner(env)
	if err != nil {
		return err
	}
	return env.Auth.RequireAuth(owner)
}
