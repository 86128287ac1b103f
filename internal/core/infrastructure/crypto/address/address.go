// Package address 提供账户地址的推导与校验
package address

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	cryptointf "github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/crypto"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // Hash160 地址格式固定使用 RIPEMD160
)

// 地址系统配置常量
const (
	// P2PKHVersion 地址版本字节（编码后以 C 开头）
	P2PKHVersion = 0x1C
	// AddressHashLength 地址哈希长度（20字节）
	AddressHashLength = 20
	// CompressedPublicKeyLength 压缩公钥长度（33字节）
	CompressedPublicKeyLength = 33
	// UncompressedPublicKeyLength 未压缩公钥长度（64字节，不含0x04前缀）
	UncompressedPublicKeyLength = 64

	minAddressLength = 25
	maxAddressLength = 34
	base58Alphabet   = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"
)

var (
	// ErrInvalidPublicKey 无效的公钥
	ErrInvalidPublicKey = errors.New("invalid public key format")
	// ErrInvalidAddress 无效的地址格式
	ErrInvalidAddress = errors.New("invalid address format")
	// ErrInvalidAddressLength 无效的地址长度
	ErrInvalidAddressLength = errors.New("invalid address length")
	// ErrInvalidVersion 无效的版本字节
	ErrInvalidVersion = errors.New("invalid address version")
	// ErrInvalidChecksum 校验和错误
	ErrInvalidChecksum = errors.New("invalid checksum")
)

// AddressService 地址管理服务
//
// Bitcoin风格的地址推导：
// 公钥 → SHA256 → RIPEMD160 → 版本字节+校验和 → Base58
type AddressService struct {
	// keyManager 用于私钥到公钥的转换，可为nil
	keyManager cryptointf.KeyManager
}

// 确保AddressService实现了AddressManager接口
var _ cryptointf.AddressManager = (*AddressService)(nil)

// NewAddressService 创建新的地址服务实例
//
// keyManager 为nil时 PrivateKeyToAddress 不可用，其余方法正常工作。
func NewAddressService(keyManager cryptointf.KeyManager) *AddressService {
	return &AddressService{
		keyManager: keyManager,
	}
}

// PrivateKeyToAddress 从私钥直接生成地址
func (s *AddressService) PrivateKeyToAddress(privateKey []byte) (string, error) {
	if s.keyManager == nil {
		return "", fmt.Errorf("私钥转地址功能不可用：未提供KeyManager依赖")
	}

	publicKey, err := s.keyManager.DerivePublicKey(privateKey)
	if err != nil {
		return "", fmt.Errorf("从私钥导出公钥失败: %w", err)
	}
	return s.PublicKeyToAddress(publicKey)
}

// PublicKeyToAddress 从公钥生成地址
func (s *AddressService) PublicKeyToAddress(publicKey []byte) (string, error) {
	if len(publicKey) != CompressedPublicKeyLength && len(publicKey) != UncompressedPublicKeyLength {
		return "", fmt.Errorf("%w: expected %d or %d bytes, got %d",
			ErrInvalidPublicKey, CompressedPublicKeyLength, UncompressedPublicKeyLength, len(publicKey))
	}
	return base58CheckEncode(hash160(publicKey), P2PKHVersion), nil
}

// ValidateAddress 验证地址格式、版本字节和校验和
func (s *AddressService) ValidateAddress(address string) error {
	if address == "" || !isValidBase58(address) {
		return ErrInvalidAddress
	}
	if len(address) < minAddressLength || len(address) > maxAddressLength {
		return ErrInvalidAddressLength
	}

	data, version, err := base58CheckDecode(address)
	if err != nil {
		return fmt.Errorf("base58check decode failed: %w", err)
	}
	if version != P2PKHVersion {
		return fmt.Errorf("%w: got 0x%02x", ErrInvalidVersion, version)
	}
	if len(data) != AddressHashLength {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidAddressLength, len(data))
	}
	return nil
}

// hash160 执行Bitcoin风格的Hash160操作：RIPEMD160(SHA256(data))
func hash160(data []byte) []byte {
	sha256Hash := sha256.Sum256(data)

	ripemd160Hasher := ripemd160.New()
	ripemd160Hasher.Write(sha256Hash[:])
	return ripemd160Hasher.Sum(nil)
}

// base58CheckEncode 使用版本字节和校验和编码数据（Base58Check）
func base58CheckEncode(data []byte, version byte) string {
	payload := make([]byte, 0, 1+len(data)+4)
	payload = append(payload, version)
	payload = append(payload, data...)

	// 校验和：双SHA256的前4字节
	checksum := doubleSHA256(payload)[:4]
	return base58.Encode(append(payload, checksum...))
}

// base58CheckDecode 解码Base58Check编码的数据
func base58CheckDecode(encoded string) ([]byte, byte, error) {
	decoded := base58.Decode(encoded)
	if len(decoded) < 5 {
		return nil, 0, ErrInvalidAddressLength
	}

	payloadLen := len(decoded) - 4
	payload := decoded[:payloadLen]
	checksum := decoded[payloadLen:]

	expectedChecksum := doubleSHA256(payload)[:4]
	for i := 0; i < 4; i++ {
		if checksum[i] != expectedChecksum[i] {
			return nil, 0, ErrInvalidChecksum
		}
	}
	return payload[1:], payload[0], nil
}

// doubleSHA256 执行双SHA256哈希
func doubleSHA256(data []byte) []byte {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])
	return second[:]
}

// isValidBase58 检查字符串是否只包含Base58字符
func isValidBase58(s string) bool {
	for _, c := range s {
		if !strings.ContainsRune(base58Alphabet, c) {
			return false
		}
	}
	return true
}
