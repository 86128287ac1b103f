// Package key 提供 secp256k1 密钥管理
package key

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/weisyn/mintregistry/internal/core/infrastructure/crypto/secp256k1"
	cryptointf "github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/crypto"
)

// 错误定义
var (
	ErrInvalidPrivateKey = errors.New("无效的私钥")
)

// KeyManager 密钥管理器
type KeyManager struct {
	curve *secp256k1.Curve
}

// 确保 KeyManager 实现了 KeyManager 接口
var _ cryptointf.KeyManager = (*KeyManager)(nil)

// NewKeyManager 创建密钥管理器
func NewKeyManager() *KeyManager {
	return &KeyManager{curve: secp256k1.NewCurve()}
}

// GenerateKeyPair 生成新的密钥对
func (km *KeyManager) GenerateKeyPair() ([]byte, []byte, error) {
	return km.curve.GenerateKey()
}

// DerivePublicKey 从私钥导出压缩公钥
func (km *KeyManager) DerivePublicKey(privateKey []byte) ([]byte, error) {
	pub, err := km.curve.PublicKey(privateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	return pub, nil
}

// ValidatePrivateKey 校验私钥
func (km *KeyManager) ValidatePrivateKey(privateKey []byte) error {
	if err := km.curve.ValidatePrivateKey(privateKey); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	return nil
}

// SecureWipe 用随机数据覆盖后清零，用于用完即弃的私钥缓冲区
func SecureWipe(data []byte) {
	if len(data) == 0 {
		return
	}
	_, _ = rand.Read(data)
	for i := range data {
		data[i] = 0
	}
}
