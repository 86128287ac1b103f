package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memoryconfig "github.com/weisyn/mintregistry/internal/config/storage/memory"
	"github.com/weisyn/mintregistry/internal/core/infrastructure/log"
	"github.com/weisyn/mintregistry/internal/core/infrastructure/storage/memory"
)

func TestCacheEntriesGauge(t *testing.T) {
	cache, err := memory.New(memoryconfig.New().GetOptions(), log.NewNop())
	require.NoError(t, err)
	defer cache.Close()

	reg := NewRegistry()
	require.NoError(t, RegisterCacheEntries(reg, cache))

	require.NoError(t, cache.Set(context.Background(), "a", []byte("1")))
	require.NoError(t, cache.Set(context.Background(), "b", []byte("2")))

	n, err := testutil.GatherAndCount(reg, "mintregistry_cache_entries")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == "mintregistry_cache_entries" {
			assert.Equal(t, float64(2), f.GetMetric()[0].GetGauge().GetValue())
		}
	}
}

func TestProvideServicesWithoutCache(t *testing.T) {
	out, err := ProvideServices(ModuleInput{})
	require.NoError(t, err)
	assert.NotNil(t, out.Registry)

	families, err := out.Gatherer.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
