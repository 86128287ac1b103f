// Package crypto 提供加密相关功能
package crypto

import (
	"github.com/weisyn/mintregistry/internal/core/infrastructure/crypto/address"
	"github.com/weisyn/mintregistry/internal/core/infrastructure/crypto/key"
	"github.com/weisyn/mintregistry/internal/core/infrastructure/crypto/signature"
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/crypto"
	"go.uber.org/fx"
)

// CryptoOutput 定义加密模块的输出结构
type CryptoOutput struct {
	fx.Out

	KeyManager       crypto.KeyManager
	AddressManager   crypto.AddressManager
	SignatureManager crypto.SignatureManager

	// SignatureService 具体类型，授权器需要 RecoverAddress
	SignatureService *signature.SignatureService
}

// Module 返回加密模块
func Module() fx.Option {
	return fx.Module("crypto",
		fx.Provide(ProvideCryptoServices),
	)
}

// ProvideCryptoServices 提供加密服务
func ProvideCryptoServices() CryptoOutput {
	keyManager := key.NewKeyManager()
	addressService := address.NewAddressService(keyManager)
	signatureService := signature.NewSignatureService(addressService)

	return CryptoOutput{
		KeyManager:       keyManager,
		AddressManager:   addressService,
		SignatureManager: signatureService,
		SignatureService: signatureService,
	}
}
