package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/mintregistry/internal/app"
	regtestutil "github.com/weisyn/mintregistry/internal/core/registry/testutil"
	"github.com/weisyn/mintregistry/pkg/interfaces/registry"
	"github.com/weisyn/mintregistry/pkg/types"
)

func startInMemory(t *testing.T) registry.Registry {
	t.Helper()
	inMemory := true
	level := "error"
	a, err := app.Start(app.WithoutAPI(), app.WithAppConfig(&types.AppConfig{
		Storage: &types.UserStorageConfig{InMemory: &inMemory},
		Log:     &types.UserLogConfig{Level: &level},
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Stop() })
	return a.Registry()
}

func TestParsePrivateKey(t *testing.T) {
	priv, err := parsePrivateKey("0x" + strings.Repeat("ab", 32))
	require.NoError(t, err)
	assert.Len(t, priv, 32)

	for _, raw := range []string{"", "zz", strings.Repeat("ab", 31)} {
		_, err := parsePrivateKey(raw)
		assert.True(t, errors.Is(err, registry.ErrInvalidArgument), raw)
	}
}

func TestSessionLifecycle(t *testing.T) {
	reg := startInMemory(t)
	ctx := context.Background()

	owner := regtestutil.NewSigner(t)
	alice := regtestutil.NewSigner(t)

	ownerS, err := newSession(reg, owner.PrivateKey)
	require.NoError(t, err)
	assert.Equal(t, owner.Address, ownerS.addr)
	aliceS, err := newSession(reg, alice.PrivateKey)
	require.NoError(t, err)

	require.NoError(t, ownerS.initialize(ctx, 1))

	_, err = aliceS.mint(ctx, 1, 2)
	assert.True(t, errors.Is(err, registry.ErrSaleNotActive))

	active, err := ownerS.flipSaleState(ctx, 2)
	require.NoError(t, err)
	assert.True(t, active)

	ids, err := aliceS.mint(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint32{6, 7}, ids)

	// 同一 nonce 与参数的授权不能重放
	_, err = aliceS.mint(ctx, 2, 2)
	assert.True(t, errors.Is(err, registry.ErrUnauthorized))

	require.NoError(t, ownerS.setPrice(ctx, 3, 1))
	require.NoError(t, ownerS.setBaseURI(ctx, 4, "ipfs://x/"))
	require.NoError(t, ownerS.setBaseExtension(ctx, 5, ".png"))
	assert.True(t, errors.Is(aliceS.setPrice(ctx, 3, 0), registry.ErrUnauthorized))

	info, err := reg.Token(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "ipfs://x/7.png", info.URI)
	assert.Equal(t, alice.Address, info.Owner)
}
