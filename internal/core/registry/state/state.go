// Package state 注册表状态的类型化读写
//
// 所有读取返回 (值, 是否写入过, 错误)，缺省值的语义由控制器决定，
// 本包不做任何业务校验。
package state

import (
	"fmt"

	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/storage"
)

// State 绑定到单个事务的注册表状态
type State struct {
	tx storage.BadgerTransaction
	ns Namespace
}

// New 在事务上创建状态访问器
func New(tx storage.BadgerTransaction, ns Namespace) *State {
	return &State{tx: tx, ns: ns}
}

func (s *State) get(k Key) ([]byte, bool, error) {
	raw, err := s.tx.Get(s.ns.Encode(k))
	if err != nil {
		return nil, false, fmt.Errorf("读取 %s 失败: %w", k, err)
	}
	if raw == nil {
		return nil, false, nil
	}
	return raw, true, nil
}

func (s *State) set(k Key, value []byte) error {
	if err := s.tx.Set(s.ns.Encode(k), value); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", k, err)
	}
	return nil
}

func (s *State) getString(k Key) (string, bool, error) {
	raw, found, err := s.get(k)
	if err != nil || !found {
		return "", found, err
	}
	v, err := decodeString(raw)
	if err != nil {
		return "", true, fmt.Errorf("%s: %w", k, err)
	}
	return v, true, nil
}

func (s *State) getUint32(k Key) (uint32, bool, error) {
	raw, found, err := s.get(k)
	if err != nil || !found {
		return 0, found, err
	}
	v, err := decodeUint32(raw)
	if err != nil {
		return 0, true, fmt.Errorf("%s: %w", k, err)
	}
	return v, true, nil
}

// Owner 合约所有者
func (s *State) Owner() (string, bool, error) { return s.getString(Owner()) }

// SetOwner 写入所有者
func (s *State) SetOwner(owner string) error { return s.set(Owner(), encodeString(owner)) }

// SaleActive 销售开关
func (s *State) SaleActive() (bool, bool, error) {
	raw, found, err := s.get(SaleActive())
	if err != nil || !found {
		return false, found, err
	}
	v, err := decodeBool(raw)
	if err != nil {
		return false, true, fmt.Errorf("%s: %w", SaleActive(), err)
	}
	return v, true, nil
}

// SetSaleActive 写入销售开关
func (s *State) SetSaleActive(active bool) error {
	return s.set(SaleActive(), encodeBool(active))
}

// TotalSupply 已铸造总量
func (s *State) TotalSupply() (uint32, bool, error) { return s.getUint32(TotalSupply()) }

// SetTotalSupply 写入已铸造总量
func (s *State) SetTotalSupply(total uint32) error {
	return s.set(TotalSupply(), encodeUint32(total))
}

// Price 单价
func (s *State) Price() (uint64, bool, error) {
	raw, found, err := s.get(Price())
	if err != nil || !found {
		return 0, found, err
	}
	v, err := decodeUint64(raw)
	if err != nil {
		return 0, true, fmt.Errorf("%s: %w", Price(), err)
	}
	return v, true, nil
}

// SetPrice 写入单价
func (s *State) SetPrice(price uint64) error { return s.set(Price(), encodeUint64(price)) }

// BaseURI 元数据基础 URI
func (s *State) BaseURI() (string, bool, error) { return s.getString(BaseURI()) }

// SetBaseURI 写入基础 URI
func (s *State) SetBaseURI(uri string) error { return s.set(BaseURI(), encodeString(uri)) }

// BaseExtension 元数据后缀
func (s *State) BaseExtension() (string, bool, error) { return s.getString(BaseExtension()) }

// SetBaseExtension 写入元数据后缀
func (s *State) SetBaseExtension(ext string) error {
	return s.set(BaseExtension(), encodeString(ext))
}

// MintedPerWallet 地址累计铸造数量
func (s *State) MintedPerWallet(address string) (uint32, bool, error) {
	return s.getUint32(MintedPerWallet(address))
}

// SetMintedPerWallet 写入地址累计铸造数量
func (s *State) SetMintedPerWallet(address string, count uint32) error {
	return s.set(MintedPerWallet(address), encodeUint32(count))
}

// TokenOwner 代币归属
func (s *State) TokenOwner(tokenID uint32) (string, bool, error) {
	return s.getString(TokenOwner(tokenID))
}

// SetTokenOwner 写入代币归属
func (s *State) SetTokenOwner(tokenID uint32, owner string) error {
	return s.set(TokenOwner(tokenID), encodeString(owner))
}

// IsProofConsumed 授权证明是否已被使用
func (s *State) IsProofConsumed(proofID []byte) (bool, error) {
	ok, err := s.tx.Exists(s.ns.Encode(ConsumedProof(proofID)))
	if err != nil {
		return false, fmt.Errorf("读取 %s 失败: %w", ConsumedProof(proofID), err)
	}
	return ok, nil
}

// MarkProofConsumed 记录授权证明已被使用
func (s *State) MarkProofConsumed(proofID []byte) error {
	return s.set(ConsumedProof(proofID), []byte{1})
}
