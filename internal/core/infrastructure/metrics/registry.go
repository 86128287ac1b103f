package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/storage"
)

// cacheSampleTimeout 采样缓存条目数的超时
const cacheSampleTimeout = time.Second

// NewRegistry 创建进程级指标注册表，预先注册 Go 运行时与进程指标
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// RegisterCacheEntries 以采集时回调的方式暴露缓存条目数
func RegisterCacheEntries(reg prometheus.Registerer, cache storage.MemoryStore) error {
	return reg.Register(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "mintregistry",
			Subsystem: "cache",
			Name:      "entries",
			Help:      "Number of entries currently held in the in-process cache",
		},
		func() float64 {
			ctx, cancel := context.WithTimeout(context.Background(), cacheSampleTimeout)
			defer cancel()
			n, err := cache.Count(ctx)
			if err != nil {
				return 0
			}
			return float64(n)
		},
	))
}
