package crypto

// SignatureManager 可恢复签名接口
type SignatureManager interface {
	// SignHash 对32字节摘要生成65字节可恢复签名 (r+s+recID)
	SignHash(hash []byte, privateKey []byte) ([]byte, error)

	// RecoverPublicKey 从摘要和65字节签名恢复33字节压缩公钥
	RecoverPublicKey(hash []byte, signature []byte) ([]byte, error)
}
