// Package crypto 定义签名授权所需的密码学接口
//
// ✍️ **密码学服务 (Cryptography Services)**
//
// 注册表的授权证明基于 secp256k1 可恢复签名：
// - KeyManager：生成密钥对、从私钥导出压缩公钥
// - SignatureManager：对32字节摘要签名，并从签名恢复公钥
// - AddressManager：公钥到 Base58Check 地址的推导与地址格式校验
package crypto

// KeyManager 密钥管理接口
type KeyManager interface {
	// GenerateKeyPair 生成新的密钥对
	// 返回32字节私钥和33字节压缩公钥
	GenerateKeyPair() (privateKey []byte, publicKey []byte, err error)

	// DerivePublicKey 从32字节私钥导出33字节压缩公钥
	DerivePublicKey(privateKey []byte) ([]byte, error)
}
