package types

// AppConfig 应用程序配置
// 只包含JSON配置文件中实际出现的字段，未出现的字段由各配置包的默认值补齐
type AppConfig struct {
	// 应用程序基本信息
	AppName *string `json:"app_name,omitempty"` // 应用名称
	DataDir *string `json:"data_dir,omitempty"` // 数据目录路径

	Log      *UserLogConfig      `json:"log,omitempty"`      // 日志配置
	Storage  *UserStorageConfig  `json:"storage,omitempty"`  // 存储配置
	Event    *UserEventConfig    `json:"event,omitempty"`    // 事件配置
	API      *UserAPIConfig      `json:"api,omitempty"`      // API配置
	Registry *UserRegistryConfig `json:"registry,omitempty"` // 注册表配置
}

// UserStorageConfig 用户存储配置
type UserStorageConfig struct {
	DataRoot   *string `json:"data_root,omitempty"`   // 数据根目录（data_root）
	InMemory   *bool   `json:"in_memory,omitempty"`   // 使用内存模式的BadgerDB（数据不持久化）
	SyncWrites *bool   `json:"sync_writes,omitempty"` // 是否同步写入
}

// UserLogConfig 用户日志配置
type UserLogConfig struct {
	Level    *string `json:"level,omitempty"`     // 日志级别：debug, info, warn, error, fatal
	FilePath *string `json:"file_path,omitempty"` // 日志文件路径
}

// UserEventConfig 用户事件配置
type UserEventConfig struct {
	Enabled *bool `json:"enabled,omitempty"` // 是否启用事件总线
}

// UserAPIConfig 用户API配置
type UserAPIConfig struct {
	HTTPEnabled *bool   `json:"http_enabled,omitempty"` // 是否启用HTTP服务
	HTTPHost    *string `json:"http_host,omitempty"`    // HTTP监听地址
	HTTPPort    *int    `json:"http_port,omitempty"`    // HTTP监听端口

	WriteRateLimit  *int  `json:"write_rate_limit,omitempty"` // 每个客户端每秒写请求数
	ReadRateLimit   *int  `json:"read_rate_limit,omitempty"`  // 每个客户端每秒读请求数
	EnableWebSocket *bool `json:"enable_websocket,omitempty"` // 是否开放事件推送
}

// UserRegistryConfig 用户注册表配置
// 集合上限（总量、预留、单地址额度）是协议常量，不允许通过配置修改
type UserRegistryConfig struct {
	ContractID           *string `json:"contract_id,omitempty"`            // 合约实例标识（存储命名空间）
	DefaultBaseURI       *string `json:"default_base_uri,omitempty"`       // 初始化时写入的 BaseUri
	DefaultBaseExtension *string `json:"default_base_extension,omitempty"` // 初始化时写入的 BaseExtension
	DefaultPrice         *uint64 `json:"default_price,omitempty"`          // 初始化时写入的价格
}

// BoolPtr 创建bool指针，用于明确表示用户设置了该值
func BoolPtr(v bool) *bool {
	return &v
}

// IntPtr 创建int指针，用于明确表示用户设置了该值
func IntPtr(v int) *int {
	return &v
}

// StringPtr 创建string指针，用于明确表示用户设置了该值
func StringPtr(v string) *string {
	return &v
}

// UInt64Ptr 创建uint64指针，用于明确表示用户设置了该值
func UInt64Ptr(v uint64) *uint64 {
	return &v
}

// GetAppName 返回应用名称（未配置时返回 mintregistry）
func (c *AppConfig) GetAppName() string {
	if c == nil || c.AppName == nil || *c.AppName == "" {
		return "mintregistry"
	}
	return *c.AppName
}
