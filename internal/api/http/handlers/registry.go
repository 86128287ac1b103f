// Package handlers 注册表 HTTP 入口
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/crypto"
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/mintregistry/pkg/interfaces/registry"
	"github.com/weisyn/mintregistry/pkg/types"
)

// RegistryHandlers 注册表入口处理器
//
// 写入口只做参数解析和地址格式校验，授权与前置条件全部交给注册表；
// 错误通过 c.Error 上报，由 ErrorHandler 统一渲染。
type RegistryHandlers struct {
	registry  registry.Registry
	addresses crypto.AddressManager
	logger    log.Logger
}

// NewRegistryHandlers 创建注册表处理器
func NewRegistryHandlers(reg registry.Registry, addresses crypto.AddressManager, logger log.Logger) *RegistryHandlers {
	return &RegistryHandlers{registry: reg, addresses: addresses, logger: logger}
}

// RegisterRoutes 注册路由到 /api/v1/registry
func (h *RegistryHandlers) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/init", h.Initialize)
	group.POST("/mint", h.Mint)
	group.POST("/sale/flip", h.FlipSaleState)
	group.POST("/base-uri", h.SetBaseURI)
	group.POST("/base-extension", h.SetBaseExtension)
	group.POST("/price", h.SetPrice)

	group.GET("/status", h.Status)
	group.GET("/tokens/:id", h.Token)
	group.GET("/wallets/:address", h.MintedBy)
}

// InitRequest 初始化请求
type InitRequest struct {
	Owner         string               `json:"owner"`
	Authorization *types.Authorization `json:"authorization"`
}

// MintRequest 铸造请求
type MintRequest struct {
	To            string               `json:"to"`
	NumTokens     uint32               `json:"num_tokens"`
	Authorization *types.Authorization `json:"authorization"`
}

// FlipSaleStateRequest 切换销售开关请求
type FlipSaleStateRequest struct {
	Caller        string               `json:"caller"`
	Authorization *types.Authorization `json:"authorization"`
}

// SetBaseURIRequest 设置 BaseUri 请求
type SetBaseURIRequest struct {
	BaseURI       string               `json:"base_uri"`
	Authorization *types.Authorization `json:"authorization"`
}

// SetBaseExtensionRequest 设置 BaseExtension 请求
type SetBaseExtensionRequest struct {
	BaseExtension string               `json:"base_extension"`
	Authorization *types.Authorization `json:"authorization"`
}

// SetPriceRequest 设置价格请求，价格以十进制字符串传输
type SetPriceRequest struct {
	Price         uint64               `json:"price,string"`
	Authorization *types.Authorization `json:"authorization"`
}

// StatusResponse 状态查询响应，附带客户端签名需要的合约标识
type StatusResponse struct {
	ContractID string `json:"contract_id"`
	*types.RegistryStatus
}

// WalletResponse 地址铸造数量
type WalletResponse struct {
	Address string `json:"address"`
	Minted  uint32 `json:"minted"`
}

// Initialize POST /init
func (h *RegistryHandlers) Initialize(c *gin.Context) {
	var req InitRequest
	if !h.bind(c, &req) || !h.validAddress(c, req.Owner) {
		return
	}
	if err := h.registry.Initialize(c.Request.Context(), req.Owner, req.Authorization); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"owner": req.Owner, "initialized": true})
}

// Mint POST /mint
func (h *RegistryHandlers) Mint(c *gin.Context) {
	var req MintRequest
	if !h.bind(c, &req) || !h.validAddress(c, req.To) {
		return
	}
	ids, err := h.registry.Mint(c.Request.Context(), req.To, req.NumTokens, req.Authorization)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"to": req.To, "token_ids": ids})
}

// FlipSaleState POST /sale/flip
func (h *RegistryHandlers) FlipSaleState(c *gin.Context) {
	var req FlipSaleStateRequest
	if !h.bind(c, &req) || !h.validAddress(c, req.Caller) {
		return
	}
	active, err := h.registry.FlipSaleState(c.Request.Context(), req.Caller, req.Authorization)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sale_active": active})
}

// SetBaseURI POST /base-uri
func (h *RegistryHandlers) SetBaseURI(c *gin.Context) {
	var req SetBaseURIRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.registry.SetBaseURI(c.Request.Context(), req.BaseURI, req.Authorization); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"base_uri": req.BaseURI})
}

// SetBaseExtension POST /base-extension
func (h *RegistryHandlers) SetBaseExtension(c *gin.Context) {
	var req SetBaseExtensionRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.registry.SetBaseExtension(c.Request.Context(), req.BaseExtension, req.Authorization); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"base_extension": req.BaseExtension})
}

// SetPrice POST /price
func (h *RegistryHandlers) SetPrice(c *gin.Context) {
	var req SetPriceRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.registry.SetPrice(c.Request.Context(), req.Price, req.Authorization); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"price": strconv.FormatUint(req.Price, 10)})
}

// Status GET /status
func (h *RegistryHandlers) Status(c *gin.Context) {
	status, err := h.registry.Status(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, StatusResponse{ContractID: h.registry.ContractID(), RegistryStatus: status})
}

// Token GET /tokens/:id
func (h *RegistryHandlers) Token(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		_ = c.Error(fmt.Errorf("%w: token id %q", registry.ErrInvalidArgument, c.Param("id")))
		return
	}
	info, err := h.registry.Token(c.Request.Context(), uint32(id))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// MintedBy GET /wallets/:address
func (h *RegistryHandlers) MintedBy(c *gin.Context) {
	addr := c.Param("address")
	if !h.validAddress(c, addr) {
		return
	}
	minted, err := h.registry.MintedBy(c.Request.Context(), addr)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, WalletResponse{Address: addr, Minted: minted})
}

func (h *RegistryHandlers) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.logger.Debugf("请求体解析失败 %s: %v", c.Request.URL.Path, err)
		_ = c.Error(fmt.Errorf("%w: %v", registry.ErrInvalidArgument, err))
		return false
	}
	return true
}

func (h *RegistryHandlers) validAddress(c *gin.Context, addr string) bool {
	if err := h.addresses.ValidateAddress(addr); err != nil {
		_ = c.Error(fmt.Errorf("%w: address %q: %v", registry.ErrInvalidArgument, addr, err))
		return false
	}
	return true
}
