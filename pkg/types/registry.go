package types

import (
	"crypto/sha256"
	"encoding/binary"
)

// invocationDomain 签名摘要的域分隔前缀，避免与其他用途的签名混淆
const invocationDomain = "mintregistry/invocation/v1"

// 入口方法名
const (
	MethodInit             = "init"
	MethodMint             = "mint"
	MethodFlipSaleState    = "flip_sale_state"
	MethodSetBaseURI       = "set_base_uri"
	MethodSetBaseExtension = "set_base_extension"
	MethodSetPrice         = "set_price"
)

// Invocation 一次入口调用的规范描述，签名授权绑定到它的摘要上
type Invocation struct {
	ContractID string   `json:"contract_id"`
	Method     string   `json:"method"`
	Args       []string `json:"args"`
	Nonce      uint64   `json:"nonce"`
}

// NewInvocation 创建调用描述，参数统一使用字符串形式
func NewInvocation(contractID, method string, nonce uint64, args ...string) *Invocation {
	if args == nil {
		args = []string{}
	}
	return &Invocation{ContractID: contractID, Method: method, Args: args, Nonce: nonce}
}

// Digest 计算调用摘要：双SHA256(域前缀 + 长度前缀字段 + nonce)
func (inv *Invocation) Digest() []byte {
	buf := make([]byte, 0, 128)
	buf = appendField(buf, invocationDomain)
	buf = appendField(buf, inv.ContractID)
	buf = appendField(buf, inv.Method)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(inv.Args)))
	for _, arg := range inv.Args {
		buf = appendField(buf, arg)
	}
	buf = binary.BigEndian.AppendUint64(buf, inv.Nonce)

	first := sha256.Sum256(buf)
	second := sha256.Sum256(first[:])
	return second[:]
}

func appendField(buf []byte, field string) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(field)))
	return append(buf, field...)
}

// Consent 某个地址对一次调用的授权证明
type Consent struct {
	Address   string `json:"address"`   // 声明授权的地址
	Signature string `json:"signature"` // 对调用摘要的65字节可恢复签名（hex）
}

// Authorization 调用方随请求提交的授权材料
type Authorization struct {
	Nonce    uint64    `json:"nonce"`
	Consents []Consent `json:"consents"`
}

// RegistryStatus 注册表状态快照
type RegistryStatus struct {
	Owner          string `json:"owner"`
	SaleActive     bool   `json:"sale_active"`
	TotalSupply    uint32 `json:"total_supply"`
	Price          uint64 `json:"price"`
	BaseURI        string `json:"base_uri"`
	BaseExtension  string `json:"base_extension"`
	MaxTokens      uint32 `json:"max_tokens"`
	TokensReserved uint32 `json:"tokens_reserved"`
	MaxMintPerTx   uint32 `json:"max_mint_per_tx"`
}

// TokenInfo 单个代币的查询结果
type TokenInfo struct {
	TokenID uint32 `json:"token_id"`
	Owner   string `json:"owner"`
	URI     string `json:"uri"`
}
