package auth

import (
	"encoding/hex"
	"fmt"

	cryptointf "github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/crypto"
	"github.com/weisyn/mintregistry/pkg/types"
)

// Signer 客户端签名工具
type Signer struct {
	keys       cryptointf.KeyManager
	addresses  cryptointf.AddressManager
	signatures cryptointf.SignatureManager
}

// NewSigner 创建客户端签名工具
func NewSigner(keys cryptointf.KeyManager, addresses cryptointf.AddressManager, signatures cryptointf.SignatureManager) *Signer {
	return &Signer{keys: keys, addresses: addresses, signatures: signatures}
}

// Address 返回私钥对应的地址
func (s *Signer) Address(privateKey []byte) (string, error) {
	pub, err := s.keys.DerivePublicKey(privateKey)
	if err != nil {
		return "", err
	}
	return s.addresses.PublicKeyToAddress(pub)
}

// Consent 为调用生成授权证明
func (s *Signer) Consent(privateKey []byte, inv *types.Invocation) (types.Consent, error) {
	addr, err := s.Address(privateKey)
	if err != nil {
		return types.Consent{}, fmt.Errorf("推导签名地址失败: %w", err)
	}
	sig, err := s.signatures.SignHash(inv.Digest(), privateKey)
	if err != nil {
		return types.Consent{}, fmt.Errorf("签名失败: %w", err)
	}
	return types.Consent{Address: addr, Signature: hex.EncodeToString(sig)}, nil
}

// Authorize 为调用生成只含一份证明的授权材料
func (s *Signer) Authorize(privateKey []byte, inv *types.Invocation) (*types.Authorization, error) {
	consent, err := s.Consent(privateKey, inv)
	if err != nil {
		return nil, err
	}
	return &types.Authorization{Nonce: inv.Nonce, Consents: []types.Consent{consent}}, nil
}
