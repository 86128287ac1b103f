package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/weisyn/mintregistry/internal/app/version"
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/writegate"
	"github.com/weisyn/mintregistry/pkg/interfaces/registry"
)

// HealthHandler 健康检查
type HealthHandler struct {
	registry  registry.Registry
	gate      writegate.WriteGate
	startedAt time.Time
}

// NewHealthHandler 创建健康检查处理器，gate 可为 nil
func NewHealthHandler(reg registry.Registry, gate writegate.WriteGate) *HealthHandler {
	return &HealthHandler{registry: reg, gate: gate, startedAt: time.Now()}
}

// Health GET /health
//
// 读取一次状态快照以确认存储可用，未初始化也视为健康。
// 只读模式返回 503，便于编排系统摘除实例。
func (h *HealthHandler) Health(c *gin.Context) {
	_, err := h.registry.Status(c.Request.Context())
	initialized := err == nil
	if err != nil && registry.Kind(err) != registry.CodeNotInitialized {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}
	if h.gate != nil && h.gate.IsReadOnly() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":          "read_only",
			"reason":          h.gate.ReadOnlyReason(),
			"read_only_since": h.gate.ReadOnlySince().UTC().Format(time.RFC3339),
			"initialized":     initialized,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"contract_id": h.registry.ContractID(),
		"initialized": initialized,
		"version":     version.Version,
		"uptime":      time.Since(h.startedAt).Round(time.Second).String(),
	})
}
