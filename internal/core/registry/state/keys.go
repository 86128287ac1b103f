package state

import (
	"encoding/binary"
	"fmt"
)

// keyPrefix 所有注册表键的公共前缀
const keyPrefix = "mintreg/"

// 键标签，决定键的变体
const (
	tagOwner           byte = 0x01
	tagSaleActive      byte = 0x02
	tagTotalSupply     byte = 0x03
	tagPrice           byte = 0x04
	tagBaseURI         byte = 0x05
	tagBaseExtension   byte = 0x06
	tagMintedPerWallet byte = 0x10
	tagTokenOwner      byte = 0x11

	// tagConsumedProof 已使用的授权证明，由执行宿主维护
	tagConsumedProof byte = 0x20
)

// Key 注册表存储键
//
// 变体集合是封闭的：只能通过本包的构造函数得到。
type Key struct {
	tag     byte
	payload []byte
}

// Owner 合约所有者
func Owner() Key { return Key{tag: tagOwner} }

// SaleActive 销售开关
func SaleActive() Key { return Key{tag: tagSaleActive} }

// TotalSupply 已铸造总量
func TotalSupply() Key { return Key{tag: tagTotalSupply} }

// Price 单价
func Price() Key { return Key{tag: tagPrice} }

// BaseURI 元数据基础 URI
func BaseURI() Key { return Key{tag: tagBaseURI} }

// BaseExtension 元数据后缀
func BaseExtension() Key { return Key{tag: tagBaseExtension} }

// MintedPerWallet 地址累计铸造数量
func MintedPerWallet(address string) Key {
	return Key{tag: tagMintedPerWallet, payload: []byte(address)}
}

// TokenOwner 代币归属，编号按大端序编码以保持字典序与数值序一致
func TokenOwner(tokenID uint32) Key {
	return Key{tag: tagTokenOwner, payload: binary.BigEndian.AppendUint32(nil, tokenID)}
}

// ConsumedProof 已使用的授权证明
func ConsumedProof(proofID []byte) Key {
	return Key{tag: tagConsumedProof, payload: append([]byte(nil), proofID...)}
}

// String 便于日志输出
func (k Key) String() string {
	switch k.tag {
	case tagOwner:
		return "Owner"
	case tagSaleActive:
		return "SaleActive"
	case tagTotalSupply:
		return "TotalSupply"
	case tagPrice:
		return "Price"
	case tagBaseURI:
		return "BaseUri"
	case tagBaseExtension:
		return "BaseExtension"
	case tagMintedPerWallet:
		return fmt.Sprintf("MintedPerWallet(%s)", k.payload)
	case tagTokenOwner:
		return fmt.Sprintf("TokenOwner(%d)", binary.BigEndian.Uint32(k.payload))
	case tagConsumedProof:
		return fmt.Sprintf("ConsumedProof(%x)", k.payload)
	default:
		return fmt.Sprintf("Unknown(0x%02x)", k.tag)
	}
}

// Namespace 一个合约实例的键空间
type Namespace struct {
	prefix []byte
}

// NewNamespace 创建合约实例的键空间：mintreg/<contractID>/
func NewNamespace(contractID string) Namespace {
	return Namespace{prefix: []byte(keyPrefix + contractID + "/")}
}

// Prefix 返回键空间前缀的副本
func (n Namespace) Prefix() []byte {
	return append([]byte(nil), n.prefix...)
}

// Encode 生成存储层使用的完整键
func (n Namespace) Encode(k Key) []byte {
	out := make([]byte, 0, len(n.prefix)+1+len(k.payload))
	out = append(out, n.prefix...)
	out = append(out, k.tag)
	return append(out, k.payload...)
}
