package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apitypes "github.com/weisyn/mintregistry/internal/api/types"
)

const (
	// registryPathPrefix 注册表入口路由前缀
	registryPathPrefix = "/api/v1/registry/"
	// eventsPath 事件推送路由
	eventsPath = registryPathPrefix + "events"

	// limiterIdleTTL 闲置超过该时长的令牌桶已经补满，可以直接回收
	limiterIdleTTL = time.Minute
	// limiterSweepInterval 回收闲置令牌桶的最小间隔
	limiterSweepInterval = time.Minute
)

// RateLimit 限流中间件
// 按客户端IP限流，写入口（签名校验 + 串行提交）比读查询严格
type RateLimit struct {
	logger     *zap.Logger
	limiters   map[string]*rateLimiter
	mu         sync.Mutex
	readLimit  int // 读操作QPS限制
	writeLimit int // 写操作QPS限制

	now       func() time.Time
	lastSweep time.Time
}

// rateLimiter 简单的令牌桶限流器
type rateLimiter struct {
	tokens     int
	maxTokens  int
	lastRefill time.Time
	lastSeen   time.Time
	mu         sync.Mutex
}

// NewRateLimit 创建限流中间件
func NewRateLimit(logger *zap.Logger, readLimit, writeLimit int) *RateLimit {
	return &RateLimit{
		logger:     logger,
		limiters:   make(map[string]*rateLimiter),
		readLimit:  readLimit,
		writeLimit: writeLimit,
		now:        time.Now,
		lastSweep:  time.Now(),
	}
}

// Middleware 返回Gin中间件
func (m *RateLimit) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		isWrite := isWriteOperation(c.Request.URL.Path, c.Request.Method)

		limit, kind := m.readLimit, "read"
		if isWrite {
			limit, kind = m.writeLimit, "write"
		}
		if limit <= 0 {
			c.Next()
			return
		}

		// 读写分开计数
		clientID := kind + "|" + c.ClientIP()
		if !m.allowRequest(clientID, limit) {
			m.logger.Debug("Rate limit exceeded",
				zap.String("client_ip", c.ClientIP()),
				zap.String("kind", kind))
			c.Header("Retry-After", "1")
			WriteError(c, apitypes.CodeRateLimited,
				"请求过于频繁，请稍后再试。",
				fmt.Sprintf("%s rate limit of %d/s exceeded", kind, limit),
				http.StatusTooManyRequests,
				map[string]interface{}{"limit": limit, "retryAfter": "1s"},
			)
			return
		}

		c.Next()
	}
}

// allowRequest 检查是否允许请求
func (m *RateLimit) allowRequest(clientID string, limit int) bool {
	now := m.now()

	m.mu.Lock()
	if now.Sub(m.lastSweep) >= limiterSweepInterval {
		m.sweepLocked(now)
	}
	limiter, exists := m.limiters[clientID]
	if !exists {
		limiter = &rateLimiter{
			tokens:     limit,
			maxTokens:  limit,
			lastRefill: now,
		}
		m.limiters[clientID] = limiter
	}
	m.mu.Unlock()

	return limiter.consume(now)
}

// sweepLocked 回收闲置的令牌桶，调用方持有 m.mu
func (m *RateLimit) sweepLocked(now time.Time) {
	for id, limiter := range m.limiters {
		limiter.mu.Lock()
		idle := now.Sub(limiter.lastSeen) >= limiterIdleTTL
		limiter.mu.Unlock()
		if idle {
			delete(m.limiters, id)
		}
	}
	m.lastSweep = now
}

// size 当前跟踪的令牌桶数量
func (m *RateLimit) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.limiters)
}

// consume 消费一个令牌
func (r *rateLimiter) consume(now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastSeen = now
	// 每满一秒补充 maxTokens 个令牌
	elapsed := now.Sub(r.lastRefill)
	tokensToAdd := int(elapsed.Seconds()) * r.maxTokens
	if tokensToAdd > 0 {
		r.tokens += tokensToAdd
		if r.tokens > r.maxTokens {
			r.tokens = r.maxTokens
		}
		r.lastRefill = now
	}

	if r.tokens > 0 {
		r.tokens--
		return true
	}

	return false
}

// isWriteOperation 判断是否为写入口
func isWriteOperation(path string, method string) bool {
	return method == http.MethodPost && strings.HasPrefix(path, registryPathPrefix)
}
