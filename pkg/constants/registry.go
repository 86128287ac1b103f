// Package constants 定义铸造注册表的协议常量
//
// 集合上限是协议常量，不通过配置覆盖。
package constants

const (
	// MaxTokens 总供应上限
	MaxTokens uint32 = 10000

	// TokensReserved 初始化时预留给所有者的代币数量（编号 1..TokensReserved）
	TokensReserved uint32 = 5

	// MaxMintPerTx 单次铸造上限，同时也是单地址公开铸造的累计上限
	MaxMintPerTx uint32 = 10
)

// 初始化时写入的默认元数据
const (
	DefaultBaseURI       = "https://ipfs.io/ipfs/QmUNLLsPACCz1vLxQVkXqqLX5R1X345qqfHbsf67hvA3Nn"
	DefaultBaseExtension = ".json"

	// DefaultPrice 0.1 ether（以 wei 计）
	DefaultPrice uint64 = 100_000_000_000_000_000
)
