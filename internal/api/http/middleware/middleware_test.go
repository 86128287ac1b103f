package middleware

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/weisyn/mintregistry/pkg/interfaces/registry"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimitSeparatesReadsAndWrites(t *testing.T) {
	r := gin.New()
	r.Use(NewRateLimit(zap.NewNop(), 5, 2).Middleware())
	r.POST("/api/v1/registry/mint", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/registry/status", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(method, path string) int {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do(http.MethodPost, "/api/v1/registry/mint"))
	assert.Equal(t, http.StatusOK, do(http.MethodPost, "/api/v1/registry/mint"))
	assert.Equal(t, http.StatusTooManyRequests, do(http.MethodPost, "/api/v1/registry/mint"))

	// 写入口耗尽不影响读
	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/api/v1/registry/status"))
}

func TestRateLimitEvictsIdleClients(t *testing.T) {
	m := NewRateLimit(zap.NewNop(), 5, 2)
	clock := time.Unix(1_700_000_000, 0)
	m.now = func() time.Time { return clock }
	m.lastSweep = clock

	for i := 0; i < 100; i++ {
		require.True(t, m.allowRequest(fmt.Sprintf("read|10.0.0.%d", i), 5))
	}
	assert.Equal(t, 100, m.size())

	// 一个客户端持续活跃
	clock = clock.Add(limiterIdleTTL / 2)
	require.True(t, m.allowRequest("read|10.0.0.1", 5))

	clock = clock.Add(limiterIdleTTL/2 + time.Second)
	require.True(t, m.allowRequest("read|10.0.1.1", 5))
	assert.Equal(t, 2, m.size())

	// 回收后重新出现的客户端拿到满桶
	for i := 0; i < 5; i++ {
		assert.True(t, m.allowRequest("read|10.0.0.7", 5))
	}
	assert.False(t, m.allowRequest("read|10.0.0.7", 5))
}

func TestRequestGuard(t *testing.T) {
	r := gin.New()
	r.Use(NewRequestGuard(zap.NewNop(), 64).Middleware())
	r.POST("/api/v1/registry/price", func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.String(http.StatusOK, string(body))
	})

	post := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/registry/price", strings.NewReader(body)))
		return rec
	}

	t.Run("正常请求体透传", func(t *testing.T) {
		rec := post(`{"price":"1"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, `{"price":"1"}`, rec.Body.String())
	})

	t.Run("顶层私钥字段", func(t *testing.T) {
		rec := post(`{"private_key":"00"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "PRIVATE_KEY_REJECTED")
	})

	t.Run("授权内的私钥字段", func(t *testing.T) {
		rec := post(`{"authorization":{"privateKey":"00"}}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("请求体过大", func(t *testing.T) {
		rec := post(fmt.Sprintf(`{"price":"%s"}`, strings.Repeat("9", 100)))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Contains(t, rec.Body.String(), "REQUEST_TOO_LARGE")
	})
}

func TestErrorHandlerRendersProblemDetails(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler(zap.NewNop()))
	r.POST("/api/v1/registry/mint", func(c *gin.Context) {
		_ = c.Error(fmt.Errorf("mint: %w", registry.ErrExceedsWalletQuota))
	})
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(fmt.Errorf("disk failure"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/registry/mint", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), registry.CodeExceedsWalletQuota)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), registry.CodeInternal)
}

func TestProblemTraceIDFollowsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(NewRequestID().Middleware(), ErrorHandler(zap.NewNop()))
	r.GET("/api/v1/registry/tokens/:id", func(c *gin.Context) {
		_ = c.Error(registry.ErrTokenNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/registry/tokens/99", nil)
	req.Header.Set("X-Request-ID", "trace-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"traceId":"trace-1"`)
}

func TestRequestIDPropagation(t *testing.T) {
	r := gin.New()
	r.Use(NewRequestID().Middleware())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Body.String())
	assert.Equal(t, "abc", rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Len(t, rec.Body.String(), 36)
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(zap.NewNop(), reg)

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/v1/registry/tokens/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/registry/tokens/"+id, nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	require.Equal(t, float64(3), testutil.ToFloat64(
		m.requestCounter.WithLabelValues(http.MethodGet, "/api/v1/registry/tokens/:id", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.requestCounter.WithLabelValues(http.MethodGet, "unmatched", "404")))
}

func TestMetricsCountsRejectionsByCode(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(zap.NewNop(), reg)

	r := gin.New()
	r.Use(m.Middleware(), ErrorHandler(zap.NewNop()))
	r.POST("/api/v1/registry/mint", func(c *gin.Context) {
		_ = c.Error(fmt.Errorf("mint: %w", registry.ErrSaleNotActive))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/registry/mint", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/registry/mint", nil))

	assert.Equal(t, float64(2), testutil.ToFloat64(
		m.rejections.WithLabelValues("/api/v1/registry/mint", registry.CodeSaleNotActive)))
	assert.Equal(t, float64(2), testutil.ToFloat64(
		m.requestCounter.WithLabelValues(http.MethodPost, "/api/v1/registry/mint", "403")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.inFlight))
}
