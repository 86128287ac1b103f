package registry

const (
	// defaultContractID 默认合约实例标识
	defaultContractID = "default"

	// maxContractIDLength 合约实例标识最大长度
	maxContractIDLength = 64
)
