// Package secp256k1 提供 secp256k1 椭圆曲线封装
//
// 封装 btcd/btcec 的 secp256k1 实现，对外提供统一的签名与公钥恢复接口，
// 上层只接触字节切片，不直接依赖第三方类型。
//
// 可恢复签名统一使用 r(32) + s(32) + recID(1) 共65字节的格式。
package secp256k1

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

const (
	// PrivateKeyLength 私钥长度
	PrivateKeyLength = 32
	// CompressedPublicKeyLength 压缩公钥长度
	CompressedPublicKeyLength = 33
	// HashLength 待签名摘要长度
	HashLength = 32
	// SignatureLength 可恢复签名长度
	SignatureLength = 65

	// compactHeaderBase btcec 紧凑签名头部基准值，+4 表示压缩公钥
	compactHeaderBase = 27
	compressedFlag    = 4
)

// Curve 封装 secp256k1 椭圆曲线
type Curve struct{}

// NewCurve 创建新的 secp256k1 曲线实例
func NewCurve() *Curve {
	return &Curve{}
}

// GenerateKey 生成新的私钥，返回32字节私钥和33字节压缩公钥
func (c *Curve) GenerateKey() ([]byte, []byte, error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, nil, fmt.Errorf("生成私钥失败: %w", err)
	}
	return priv.Serialize(), priv.PubKey().SerializeCompressed(), nil
}

// ValidatePrivateKey 私钥必须是 [1, N-1] 范围内的32字节标量
func (c *Curve) ValidatePrivateKey(privateKey []byte) error {
	if len(privateKey) != PrivateKeyLength {
		return &ErrInvalidKeyLength{Expected: PrivateKeyLength, Got: len(privateKey)}
	}
	var scalar btcec.ModNScalar
	if overflow := scalar.SetByteSlice(privateKey); overflow || scalar.IsZero() {
		return fmt.Errorf("私钥超出曲线阶范围")
	}
	return nil
}

// PublicKey 从私钥导出压缩公钥
func (c *Curve) PublicKey(privateKey []byte) ([]byte, error) {
	if err := c.ValidatePrivateKey(privateKey); err != nil {
		return nil, err
	}
	_, pub := btcec.PrivKeyFromBytes(privateKey)
	return pub.SerializeCompressed(), nil
}

// SignRecoverable 对32字节摘要生成 r+s+recID 格式的可恢复签名
func (c *Curve) SignRecoverable(hash, privateKey []byte) ([]byte, error) {
	if len(hash) != HashLength {
		return nil, &ErrInvalidHashLength{Expected: HashLength, Got: len(hash)}
	}
	if err := c.ValidatePrivateKey(privateKey); err != nil {
		return nil, err
	}

	priv, _ := btcec.PrivKeyFromBytes(privateKey)
	compact := ecdsa.SignCompact(priv, hash, true)

	// btcec 紧凑格式: header(1) + r(32) + s(32)，转换为 r + s + recID
	signature := make([]byte, SignatureLength)
	copy(signature, compact[1:])
	signature[64] = compact[0] - compactHeaderBase - compressedFlag
	return signature, nil
}

// RecoverPubkey 从签名恢复压缩公钥
func (c *Curve) RecoverPubkey(hash, signature []byte) ([]byte, error) {
	if len(signature) != SignatureLength {
		return nil, &ErrInvalidSignatureLength{Expected: SignatureLength, Got: len(signature)}
	}
	if len(hash) != HashLength {
		return nil, &ErrInvalidHashLength{Expected: HashLength, Got: len(hash)}
	}

	recID := signature[64]
	if recID >= 4 {
		return nil, &ErrRecoverPubkeyFailed{Err: fmt.Errorf("invalid recovery id: %d", recID)}
	}
	compact := make([]byte, SignatureLength)
	compact[0] = compactHeaderBase + recID + compressedFlag
	copy(compact[1:], signature[:64])

	pubKey, _, err := ecdsa.RecoverCompact(compact, hash)
	if err != nil {
		return nil, &ErrRecoverPubkeyFailed{Err: err}
	}
	return pubKey.SerializeCompressed(), nil
}

// 错误类型定义

// ErrInvalidSignatureLength 签名长度无效
type ErrInvalidSignatureLength struct {
	Expected int
	Got      int
}

func (e *ErrInvalidSignatureLength) Error() string {
	return fmt.Sprintf("无效的签名长度: 期望 %d 字节，实际 %d 字节", e.Expected, e.Got)
}

// ErrInvalidHashLength 哈希长度无效
type ErrInvalidHashLength struct {
	Expected int
	Got      int
}

func (e *ErrInvalidHashLength) Error() string {
	return fmt.Sprintf("无效的哈希长度: 期望 %d 字节，实际 %d 字节", e.Expected, e.Got)
}

// ErrInvalidKeyLength 密钥长度无效
type ErrInvalidKeyLength struct {
	Expected int
	Got      int
}

func (e *ErrInvalidKeyLength) Error() string {
	return fmt.Sprintf("无效的密钥长度: 期望 %d 字节，实际 %d 字节", e.Expected, e.Got)
}

// ErrRecoverPubkeyFailed 公钥恢复失败
type ErrRecoverPubkeyFailed struct {
	Err error
}

func (e *ErrRecoverPubkeyFailed) Error() string {
	return fmt.Sprintf("公钥恢复失败: %v", e.Err)
}

func (e *ErrRecoverPubkeyFailed) Unwrap() error {
	return e.Err
}
