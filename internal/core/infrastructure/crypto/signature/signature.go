// Package signature 提供授权证明使用的可恢复签名
package signature

import (
	"errors"
	"fmt"

	"github.com/weisyn/mintregistry/internal/core/infrastructure/crypto/secp256k1"
	cryptointf "github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/crypto"
)

// 确保SignatureService实现了cryptointf.SignatureManager接口
var _ cryptointf.SignatureManager = (*SignatureService)(nil)

// 错误定义
var (
	ErrInvalidSignature  = errors.New("无效的签名")
	ErrInvalidHashLength = errors.New("无效的哈希长度")
	ErrInvalidRecoveryID = errors.New("无效的恢复ID")
	ErrAddressMismatch   = errors.New("签名者与声明地址不一致")
)

// 签名系统常量
const (
	// RecoverableSignatureLength r+s+recID
	RecoverableSignatureLength = 65
	// HashLength 待签名摘要长度（双SHA256）
	HashLength = 32
)

// SignatureService 对摘要签名，并从签名恢复签名者
//
// 签名者身份由签名本身恢复，不需要单独传输公钥：
// 恢复出的压缩公钥经 AddressManager 推导为地址后与声明地址比较。
type SignatureService struct {
	addressManager cryptointf.AddressManager
	secp256k1Curve *secp256k1.Curve
}

// NewSignatureService 创建新的签名服务
func NewSignatureService(addressManager cryptointf.AddressManager) *SignatureService {
	return &SignatureService{
		addressManager: addressManager,
		secp256k1Curve: secp256k1.NewCurve(),
	}
}

// SignHash 对32字节摘要生成65字节可恢复签名
func (ss *SignatureService) SignHash(hash []byte, privateKey []byte) ([]byte, error) {
	if len(hash) != HashLength {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHashLength, len(hash))
	}
	return ss.secp256k1Curve.SignRecoverable(hash, privateKey)
}

// RecoverPublicKey 从摘要和签名恢复压缩公钥
func (ss *SignatureService) RecoverPublicKey(hash []byte, signature []byte) ([]byte, error) {
	if err := ss.ValidateSignature(signature); err != nil {
		return nil, err
	}
	if len(hash) != HashLength {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHashLength, len(hash))
	}
	pub, err := ss.secp256k1Curve.RecoverPubkey(hash, signature)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return pub, nil
}

// RecoverAddress 从签名恢复签名者地址
func (ss *SignatureService) RecoverAddress(hash []byte, signature []byte) (string, error) {
	if ss.addressManager == nil {
		return "", fmt.Errorf("地址恢复不可用：未提供AddressManager依赖")
	}
	pub, err := ss.RecoverPublicKey(hash, signature)
	if err != nil {
		return "", err
	}
	return ss.addressManager.PublicKeyToAddress(pub)
}

// VerifyAddress 校验签名确实由 address 对应的私钥产生
func (ss *SignatureService) VerifyAddress(hash []byte, signature []byte, address string) error {
	recovered, err := ss.RecoverAddress(hash, signature)
	if err != nil {
		return err
	}
	if recovered != address {
		return ErrAddressMismatch
	}
	return nil
}

// ValidateSignature 校验签名格式
func (ss *SignatureService) ValidateSignature(signature []byte) error {
	if len(signature) != RecoverableSignatureLength {
		return fmt.Errorf("%w: 期望 %d 字节，实际 %d 字节", ErrInvalidSignature, RecoverableSignatureLength, len(signature))
	}
	if signature[64] >= 4 {
		return fmt.Errorf("%w: %d", ErrInvalidRecoveryID, signature[64])
	}
	return nil
}
