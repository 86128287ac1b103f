package host

import (
	"context"
	"fmt"
)

// 代币归属一经写入不再变化，可以无失效地缓存

func (h *Host) ownerCacheKey(tokenID uint32) string {
	return fmt.Sprintf("%s/owner/%d", h.contractID, tokenID)
}

func (h *Host) cachedOwner(ctx context.Context, tokenID uint32) (string, bool) {
	if h.cache == nil {
		return "", false
	}
	raw, ok, err := h.cache.Get(ctx, h.ownerCacheKey(tokenID))
	if err != nil {
		h.logDebug("读取归属缓存失败: %v", err)
		ok = false
	}
	h.metrics.recordCacheLookup(ok)
	if !ok {
		return "", false
	}
	return string(raw), true
}

func (h *Host) cacheOwners(ctx context.Context, owner string, tokenIDs []uint32) {
	if h.cache == nil {
		return
	}
	for _, id := range tokenIDs {
		if err := h.cache.Set(ctx, h.ownerCacheKey(id), []byte(owner)); err != nil {
			h.logDebug("写入归属缓存失败: %v", err)
			return
		}
	}
}
