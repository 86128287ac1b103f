// Package testutil 提供注册表测试的辅助工具
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	badgerconfig "github.com/weisyn/mintregistry/internal/config/storage/badger"
	"github.com/weisyn/mintregistry/internal/core/infrastructure/crypto/address"
	"github.com/weisyn/mintregistry/internal/core/infrastructure/crypto/key"
	"github.com/weisyn/mintregistry/internal/core/infrastructure/crypto/signature"
	"github.com/weisyn/mintregistry/internal/core/infrastructure/storage/badger"
)

// NewTestStore 创建内存模式的 BadgerDB 存储，测试结束自动关闭
func NewTestStore(t testing.TB) *badger.Store {
	t.Helper()
	cfg := badgerconfig.NewFromOptions(&badgerconfig.BadgerOptions{
		InMemory:     true,
		MemTableSize: 16 << 20,
	})
	store, err := badger.New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// Signer 测试账户
type Signer struct {
	PrivateKey []byte
	Address    string
}

// NewSigner 生成随机测试账户
func NewSigner(t testing.TB) Signer {
	t.Helper()
	km := key.NewKeyManager()
	priv, _, err := km.GenerateKeyPair()
	require.NoError(t, err)
	addr, err := address.NewAddressService(km).PrivateKeyToAddress(priv)
	require.NoError(t, err)
	return Signer{PrivateKey: priv, Address: addr}
}

// NewSignatureService 创建完整依赖的签名服务
func NewSignatureService() *signature.SignatureService {
	return signature.NewSignatureService(address.NewAddressService(key.NewKeyManager()))
}
