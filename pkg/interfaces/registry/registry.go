// Package registry 定义定量铸造注册表的对外接口
//
// 🎯 **铸造注册表 (Capped-Mint Registry)**
//
// 注册表维护一个由所有者控制、上限固定的编号代币集合：
// - init：所有者自授权安装合约，并向自己铸造预留代币
// - mint：接收地址自授权，在销售开启、单次/单地址额度与总量上限内铸造
// - flip_sale_state / set_base_uri / set_base_extension / set_price：所有者管理操作
//
// 每次入口调用是一个独立的原子事务：先校验授权，再读取最少状态校验前置条件，
// 要么拒绝（不写入任何状态），要么一次性提交全部写入。
package registry

import (
	"context"

	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/mintregistry/pkg/types"
)

// Authorizer 授权校验能力
//
// 控制器只依赖"证明某地址同意本次调用"这一能力，不关心具体签名方案。
type Authorizer interface {
	// RequireAuth 地址未对本次调用给出有效授权时返回 ErrUnauthorized
	RequireAuth(address string) error
}

// Registry 注册表入口（由执行宿主实现）
type Registry interface {
	// ContractID 返回合约实例标识，客户端签名时需要用到
	ContractID() string

	// Initialize 安装合约并向 owner 铸造预留代币
	Initialize(ctx context.Context, owner string, auth *types.Authorization) error

	// Mint 向 to 铸造 numTokens 个代币，返回分配的代币编号（严格递增）
	Mint(ctx context.Context, to string, numTokens uint32, auth *types.Authorization) ([]uint32, error)

	// FlipSaleState 切换销售开关，返回切换后的值
	FlipSaleState(ctx context.Context, caller string, auth *types.Authorization) (bool, error)

	// SetBaseURI 覆盖 BaseUri
	SetBaseURI(ctx context.Context, baseURI string, auth *types.Authorization) error

	// SetBaseExtension 覆盖 BaseExtension
	SetBaseExtension(ctx context.Context, baseExtension string, auth *types.Authorization) error

	// SetPrice 覆盖价格（不设上限）
	SetPrice(ctx context.Context, price uint64, auth *types.Authorization) error

	// Status 返回状态快照
	Status(ctx context.Context) (*types.RegistryStatus, error)

	// Token 返回代币归属与 URI
	Token(ctx context.Context, tokenID uint32) (*types.TokenInfo, error)

	// MintedBy 返回地址累计铸造数量（从未铸造返回0）
	MintedBy(ctx context.Context, address string) (uint32, error)
}

// 领域事件类型，仅在事务提交后发布
const (
	EventInitialized          event.EventType = "registry:initialized"
	EventMinted               event.EventType = "registry:minted"
	EventSaleStateChanged     event.EventType = "registry:sale_state_changed"
	EventBaseURIChanged       event.EventType = "registry:base_uri_changed"
	EventBaseExtensionChanged event.EventType = "registry:base_extension_changed"
	EventPriceChanged         event.EventType = "registry:price_changed"
)

// Event 领域事件
type Event struct {
	ID         string          `json:"id"`
	Type       event.EventType `json:"type"`
	ContractID string          `json:"contract_id"`
	Payload    interface{}     `json:"payload"`
}

// InitializedPayload 初始化事件载荷
type InitializedPayload struct {
	Owner    string   `json:"owner"`
	Reserved []uint32 `json:"reserved"`
}

// MintedPayload 铸造事件载荷
type MintedPayload struct {
	To          string   `json:"to"`
	TokenIDs    []uint32 `json:"token_ids"`
	TotalSupply uint32   `json:"total_supply"`
}

// SaleStateChangedPayload 销售开关事件载荷
type SaleStateChangedPayload struct {
	SaleActive bool `json:"sale_active"`
}

// ValueChangedPayload 管理字段变更事件载荷
type ValueChangedPayload struct {
	Value string `json:"value"`
}
