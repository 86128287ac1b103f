package host

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 注册表监控指标
type Metrics struct {
	invocations     *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	tokensMinted    prometheus.Counter
	totalSupply     prometheus.Gauge
	saleActive      prometheus.Gauge
	ownerCacheLooks *prometheus.CounterVec
}

// NewMetrics 创建指标并注册到 reg；reg 为 nil 时只创建不注册
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mintregistry",
				Subsystem: "registry",
				Name:      "invocations_total",
				Help:      "Total number of entry point invocations by method and result",
			},
			[]string{"method", "result"}, // result: ok 或错误码
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "mintregistry",
				Subsystem: "registry",
				Name:      "invocation_duration_seconds",
				Help:      "Duration of entry point invocations in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms ~ 1s
			},
			[]string{"method"},
		),
		tokensMinted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mintregistry",
			Subsystem: "registry",
			Name:      "tokens_minted_total",
			Help:      "Total number of tokens minted since process start",
		}),
		totalSupply: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mintregistry",
			Subsystem: "registry",
			Name:      "total_supply",
			Help:      "Last committed total supply",
		}),
		saleActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mintregistry",
			Subsystem: "registry",
			Name:      "sale_active",
			Help:      "1 when the public sale is open",
		}),
		ownerCacheLooks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mintregistry",
				Subsystem: "registry",
				Name:      "owner_cache_lookups_total",
				Help:      "Token owner cache lookups by result",
			},
			[]string{"result"}, // hit, miss
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.invocations,
			m.duration,
			m.tokensMinted,
			m.totalSupply,
			m.saleActive,
			m.ownerCacheLooks,
		)
	}
	return m
}

func (m *Metrics) observeInvocation(method, result string, seconds float64) {
	if m == nil {
		return
	}
	m.invocations.WithLabelValues(method, result).Inc()
	m.duration.WithLabelValues(method).Observe(seconds)
}

func (m *Metrics) recordMinted(count int, totalSupply uint32) {
	if m == nil {
		return
	}
	m.tokensMinted.Add(float64(count))
	m.totalSupply.Set(float64(totalSupply))
}

func (m *Metrics) recordSaleActive(active bool) {
	if m == nil {
		return
	}
	if active {
		m.saleActive.Set(1)
	} else {
		m.saleActive.Set(0)
	}
}

func (m *Metrics) recordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.ownerCacheLooks.WithLabelValues("hit").Inc()
	} else {
		m.ownerCacheLooks.WithLabelValues("miss").Inc()
	}
}
