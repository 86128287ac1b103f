package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/weisyn/mintregistry/pkg/interfaces/registry"
)

const metricsNamespace = "mintregistry"

// Metrics 指标收集中间件
type Metrics struct {
	logger          *zap.Logger
	requestCounter  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rejections      *prometheus.CounterVec
	inFlight        prometheus.Gauge
}

// NewMetrics 创建指标中间件，指标注册到 reg（nil 时不注册）
func NewMetrics(logger *zap.Logger, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		logger: logger,
		requestCounter: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of API requests",
		}, []string{"method", "path", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "API request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		}, []string{"method", "path"}),
		rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "api",
			Name:      "rejections_total",
			Help:      "API requests answered with a registry error, by error code",
		}, []string{"path", "code"}),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "api",
			Name:      "requests_in_flight",
			Help:      "API requests currently being served",
		}),
	}
}

// Middleware 返回Gin中间件
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 推送长连接不计入请求耗时
		if c.Request.URL.Path == eventsPath {
			c.Next()
			return
		}

		start := time.Now()
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		c.Next()

		// 路由模板作为标签，/tokens/:id 不会按 id 展开
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		m.requestCounter.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		if len(c.Errors) > 0 {
			m.rejections.WithLabelValues(path, registry.Kind(c.Errors.Last().Err)).Inc()
		}
	}
}
