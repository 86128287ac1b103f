package crypto

// AddressManager 地址管理接口
type AddressManager interface {
	// PublicKeyToAddress 从公钥生成 Base58Check 地址
	PublicKeyToAddress(publicKey []byte) (string, error)

	// ValidateAddress 校验地址格式、版本字节与校验和
	ValidateAddress(address string) error
}
