package host

import (
	"context"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eventconfig "github.com/weisyn/mintregistry/internal/config/event"
	memoryconfig "github.com/weisyn/mintregistry/internal/config/storage/memory"
	"github.com/weisyn/mintregistry/internal/core/infrastructure/crypto/address"
	"github.com/weisyn/mintregistry/internal/core/infrastructure/crypto/key"
	"github.com/weisyn/mintregistry/internal/core/infrastructure/crypto/signature"
	"github.com/weisyn/mintregistry/internal/core/infrastructure/event"
	"github.com/weisyn/mintregistry/internal/core/infrastructure/log"
	"github.com/weisyn/mintregistry/internal/core/infrastructure/storage/badger"
	"github.com/weisyn/mintregistry/internal/core/infrastructure/storage/memory"
	"github.com/weisyn/mintregistry/internal/core/infrastructure/writegate"
	"github.com/weisyn/mintregistry/internal/core/registry/auth"
	"github.com/weisyn/mintregistry/internal/core/registry/controller"
	"github.com/weisyn/mintregistry/internal/core/registry/state"
	regtestutil "github.com/weisyn/mintregistry/internal/core/registry/testutil"
	"github.com/weisyn/mintregistry/pkg/constants"
	wgif "github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/writegate"
	"github.com/weisyn/mintregistry/pkg/interfaces/registry"
	"github.com/weisyn/mintregistry/pkg/types"
)

type fixture struct {
	host    *Host
	store   *badger.Store
	gate    wgif.WriteGate
	signer  *auth.Signer
	bus     *event.EventBus
	metrics *Metrics
	owner   regtestutil.Signer
	nonce   uint64

	mu     sync.Mutex
	events []registry.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	km := key.NewKeyManager()
	addrs := address.NewAddressService(km)
	sigs := signature.NewSignatureService(addrs)

	cache, err := memory.New(memoryconfig.New().GetOptions(), log.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	bus := event.New(eventconfig.New(nil), log.NewNop())
	metrics := NewMetrics(prometheus.NewRegistry())
	store := regtestutil.NewTestStore(t)
	gate := writegate.New()

	h, err := New(Config{
		ContractID: "test",
		Defaults: controller.Defaults{
			BaseURI:       constants.DefaultBaseURI,
			BaseExtension: constants.DefaultBaseExtension,
			Price:         constants.DefaultPrice,
		},
	}, Deps{
		Store:    store,
		Cache:    cache,
		Verifier: sigs,
		Events:   bus,
		Metrics:  metrics,
		Gate:     gate,
		Logger:   log.NewNop(),
	})
	require.NoError(t, err)

	f := &fixture{
		host:    h,
		store:   store,
		gate:    gate,
		signer:  auth.NewSigner(km, addrs, sigs),
		bus:     bus,
		metrics: metrics,
		owner:   regtestutil.NewSigner(t),
	}
	for _, et := range AllEventTypes {
		require.NoError(t, bus.Subscribe(et, func(ev registry.Event) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.events = append(f.events, ev)
		}))
	}
	return f
}

// authorize 用 priv 对调用签名，每次使用新的 nonce
func (f *fixture) authorize(t *testing.T, priv []byte, method string, args ...string) *types.Authorization {
	t.Helper()
	f.nonce++
	inv := types.NewInvocation(f.host.ContractID(), method, f.nonce, args...)
	authz, err := f.signer.Authorize(priv, inv)
	require.NoError(t, err)
	return authz
}

func (f *fixture) initialize(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	authz := f.authorize(t, f.owner.PrivateKey, types.MethodInit, f.owner.Address)
	require.NoError(t, f.host.Initialize(ctx, f.owner.Address, authz))
}

func (f *fixture) openSale(t *testing.T) {
	t.Helper()
	authz := f.authorize(t, f.owner.PrivateKey, types.MethodFlipSaleState, f.owner.Address)
	active, err := f.host.FlipSaleState(context.Background(), f.owner.Address, authz)
	require.NoError(t, err)
	require.True(t, active)
}

func (f *fixture) eventTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, ev := range f.events {
		out = append(out, string(ev.Type))
	}
	return out
}

func TestHostEndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := regtestutil.NewSigner(t)

	f.initialize(t)
	f.openSale(t)

	authz := f.authorize(t, alice.PrivateKey, types.MethodMint, alice.Address, "3")
	ids, err := f.host.Mint(ctx, alice.Address, 3, authz)
	require.NoError(t, err)
	assert.Equal(t, []uint32{6, 7, 8}, ids)

	status, err := f.host.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(8), status.TotalSupply)
	assert.True(t, status.SaleActive)
	assert.Equal(t, f.owner.Address, status.Owner)

	minted, err := f.host.MintedBy(ctx, alice.Address)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), minted)

	info, err := f.host.Token(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, alice.Address, info.Owner)
	assert.Equal(t, constants.DefaultBaseURI+"7.json", info.URI)

	_, err = f.host.Token(ctx, 9)
	assert.ErrorIs(t, err, registry.ErrTokenNotFound)

	assert.Equal(t, []string{
		string(registry.EventInitialized),
		string(registry.EventSaleStateChanged),
		string(registry.EventMinted),
	}, f.eventTypes())
	assert.Equal(t, uint64(3), f.bus.PublishedCount())

	assert.Equal(t, float64(8), testutil.ToFloat64(f.metrics.totalSupply))
	assert.Equal(t, float64(8), testutil.ToFloat64(f.metrics.tokensMinted))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.saleActive))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.invocations.WithLabelValues(types.MethodMint, "ok")))
}

func TestReplayedConsentIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := regtestutil.NewSigner(t)

	f.initialize(t)
	f.openSale(t)

	authz := f.authorize(t, alice.PrivateKey, types.MethodMint, alice.Address, "1")
	_, err := f.host.Mint(ctx, alice.Address, 1, authz)
	require.NoError(t, err)

	_, err = f.host.Mint(ctx, alice.Address, 1, authz)
	assert.ErrorIs(t, err, registry.ErrUnauthorized)

	minted, err := f.host.MintedBy(ctx, alice.Address)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), minted)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.invocations.WithLabelValues(types.MethodMint, registry.CodeUnauthorized)))
}

func TestRejectedConsentCanBeRetried(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := regtestutil.NewSigner(t)

	f.initialize(t)

	// 销售关闭时被拒绝，证明没有被消耗
	authz := f.authorize(t, alice.PrivateKey, types.MethodMint, alice.Address, "2")
	_, err := f.host.Mint(ctx, alice.Address, 2, authz)
	require.ErrorIs(t, err, registry.ErrSaleNotActive)

	f.openSale(t)
	ids, err := f.host.Mint(ctx, alice.Address, 2, authz)
	require.NoError(t, err)
	assert.Equal(t, []uint32{6, 7}, ids)
}

func TestConsentBoundToArguments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := regtestutil.NewSigner(t)

	f.initialize(t)
	f.openSale(t)

	authz := f.authorize(t, alice.PrivateKey, types.MethodMint, alice.Address, "1")
	_, err := f.host.Mint(ctx, alice.Address, 5, authz)
	assert.ErrorIs(t, err, registry.ErrUnauthorized)

	// 所有者的 init 证明不能用于改价
	initAuthz := f.authorize(t, f.owner.PrivateKey, types.MethodInit, f.owner.Address)
	err = f.host.SetPrice(ctx, 1, initAuthz)
	assert.ErrorIs(t, err, registry.ErrUnauthorized)
}

func TestRejectedCallPublishesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mallory := regtestutil.NewSigner(t)

	f.initialize(t)
	before := f.bus.PublishedCount()

	authz := f.authorize(t, mallory.PrivateKey, types.MethodFlipSaleState, mallory.Address)
	_, err := f.host.FlipSaleState(ctx, mallory.Address, authz)
	assert.ErrorIs(t, err, registry.ErrUnauthorized)

	authz = f.authorize(t, mallory.PrivateKey, types.MethodSetBaseURI, "ipfs://x/")
	err = f.host.SetBaseURI(ctx, "ipfs://x/", authz)
	assert.ErrorIs(t, err, registry.ErrUnauthorized)

	assert.Equal(t, before, f.bus.PublishedCount())
}

func TestOwnerSettersThroughHost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.initialize(t)

	authz := f.authorize(t, f.owner.PrivateKey, types.MethodSetBaseURI, "ipfs://cid/")
	require.NoError(t, f.host.SetBaseURI(ctx, "ipfs://cid/", authz))
	authz = f.authorize(t, f.owner.PrivateKey, types.MethodSetBaseExtension, "")
	require.NoError(t, f.host.SetBaseExtension(ctx, "", authz))
	authz = f.authorize(t, f.owner.PrivateKey, types.MethodSetPrice, "0")
	require.NoError(t, f.host.SetPrice(ctx, 0, authz))

	status, err := f.host.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ipfs://cid/", status.BaseURI)
	assert.Equal(t, "", status.BaseExtension)
	assert.Equal(t, uint64(0), status.Price)

	info, err := f.host.Token(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "ipfs://cid/2", info.URI)
	assert.Equal(t, f.owner.Address, info.Owner)
}

func TestDoubleInitialize(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)

	authz := f.authorize(t, f.owner.PrivateKey, types.MethodInit, f.owner.Address)
	err := f.host.Initialize(context.Background(), f.owner.Address, authz)
	assert.ErrorIs(t, err, registry.ErrAlreadyInitialized)
}

func TestConcurrentMintsAreSerialized(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.initialize(t)
	f.openSale(t)

	const wallets = 8
	signers := make([]regtestutil.Signer, wallets)
	auths := make([]*types.Authorization, wallets)
	for i := range signers {
		signers[i] = regtestutil.NewSigner(t)
		auths[i] = f.authorize(t, signers[i].PrivateKey, types.MethodMint, signers[i].Address, "10")
	}

	var wg sync.WaitGroup
	results := make([][]uint32, wallets)
	for i := range signers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids, err := f.host.Mint(ctx, signers[i].Address, 10, auths[i])
			assert.NoError(t, err)
			results[i] = ids
		}(i)
	}
	wg.Wait()

	seen := make(map[uint32]bool)
	for _, ids := range results {
		require.Len(t, ids, 10)
		for j := 1; j < len(ids); j++ {
			assert.Equal(t, ids[j-1]+1, ids[j], "ids within one mint are contiguous")
		}
		for _, id := range ids {
			assert.False(t, seen[id], "token %d assigned twice", id)
			seen[id] = true
		}
	}

	status, err := f.host.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(5+wallets*10), status.TotalSupply)
}

func TestNewValidatesDeps(t *testing.T) {
	_, err := New(Config{}, Deps{})
	assert.ErrorIs(t, err, registry.ErrInvalidArgument)

	_, err = New(Config{ContractID: "x"}, Deps{})
	assert.Error(t, err)
}

func TestReadOnlyGateRejectsWrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.initialize(t)

	f.gate.EnterReadOnly("维护")
	authz := f.authorize(t, f.owner.PrivateKey, types.MethodFlipSaleState, f.owner.Address)
	_, err := f.host.FlipSaleState(ctx, f.owner.Address, authz)
	require.ErrorIs(t, err, registry.ErrReadOnly)
	assert.Equal(t, registry.CodeReadOnly, registry.Kind(err))

	// 查询不受影响
	status, err := f.host.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status.SaleActive)

	// 被拒绝的证明没有被消耗
	f.gate.ExitReadOnly()
	active, err := f.host.FlipSaleState(ctx, f.owner.Address, authz)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestCorruptStateEntersReadOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.initialize(t)
	f.openSale(t)

	key := state.NewNamespace(f.host.ContractID()).Encode(state.TotalSupply())
	require.NoError(t, f.store.Set(ctx, key, []byte{0xff}))

	alice := regtestutil.NewSigner(t)
	authz := f.authorize(t, alice.PrivateKey, types.MethodMint, alice.Address, "1")
	_, err := f.host.Mint(ctx, alice.Address, 1, authz)
	require.ErrorIs(t, err, registry.ErrCorruptState)
	assert.True(t, f.gate.IsReadOnly())
	assert.Contains(t, f.gate.ReadOnlyReason(), types.MethodMint)

	authz = f.authorize(t, f.owner.PrivateKey, types.MethodSetPrice, "1")
	err = f.host.SetPrice(ctx, 1, authz)
	assert.ErrorIs(t, err, registry.ErrReadOnly)
}
