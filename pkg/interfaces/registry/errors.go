package registry

import "errors"

// 注册表错误分类
//
// 每个错误都作为调用的最终结果直接返回给调用方，且不伴随任何状态写入。
var (
	// ErrUnauthorized 授权证明缺失或无效
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotInitialized 初始化之前读取了必需的单例键
	ErrNotInitialized = errors.New("registry not initialized")
	// ErrAlreadyInitialized 重复初始化
	ErrAlreadyInitialized = errors.New("registry already initialized")
	// ErrSaleNotActive 销售开关关闭时尝试公开铸造
	ErrSaleNotActive = errors.New("the sale is paused")
	// ErrExceedsPerTransactionLimit 单次铸造数量超过上限
	ErrExceedsPerTransactionLimit = errors.New("cannot mint that many tokens in one transaction")
	// ErrExceedsWalletQuota 地址累计铸造数量超过上限
	ErrExceedsWalletQuota = errors.New("cannot mint that many tokens in total")
	// ErrSupplyExhausted 超过总供应上限
	ErrSupplyExhausted = errors.New("exceeds total token supply")
	// ErrTokenNotFound 查询不存在的代币
	ErrTokenNotFound = errors.New("token not found")
	// ErrInvalidArgument 入参格式错误（地址、签名等）
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrCorruptState 存储中的值无法按预期类型解码
	ErrCorruptState = errors.New("corrupt registry state")
	// ErrReadOnly 宿主已切换为只读，写入口一律拒绝
	ErrReadOnly = errors.New("registry is read-only")
)

// 错误码，供HTTP和CLI输出使用
const (
	CodeUnauthorized               = "UNAUTHORIZED"
	CodeNotInitialized             = "NOT_INITIALIZED"
	CodeAlreadyInitialized         = "ALREADY_INITIALIZED"
	CodeSaleNotActive              = "SALE_NOT_ACTIVE"
	CodeExceedsPerTransactionLimit = "EXCEEDS_PER_TRANSACTION_LIMIT"
	CodeExceedsWalletQuota         = "EXCEEDS_WALLET_QUOTA"
	CodeSupplyExhausted            = "SUPPLY_EXHAUSTED"
	CodeTokenNotFound              = "TOKEN_NOT_FOUND"
	CodeInvalidArgument            = "INVALID_ARGUMENT"
	CodeCorruptState               = "CORRUPT_STATE"
	CodeReadOnly                   = "READ_ONLY"
	CodeInternal                   = "INTERNAL"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrUnauthorized, CodeUnauthorized},
	{ErrNotInitialized, CodeNotInitialized},
	{ErrAlreadyInitialized, CodeAlreadyInitialized},
	{ErrSaleNotActive, CodeSaleNotActive},
	{ErrExceedsPerTransactionLimit, CodeExceedsPerTransactionLimit},
	{ErrExceedsWalletQuota, CodeExceedsWalletQuota},
	{ErrSupplyExhausted, CodeSupplyExhausted},
	{ErrTokenNotFound, CodeTokenNotFound},
	{ErrInvalidArgument, CodeInvalidArgument},
	{ErrCorruptState, CodeCorruptState},
	{ErrReadOnly, CodeReadOnly},
}

// Kind 返回错误对应的稳定错误码；nil 返回空串，未知错误返回 CodeInternal
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return CodeInternal
}
