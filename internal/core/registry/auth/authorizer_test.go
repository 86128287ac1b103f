package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/mintregistry/internal/core/infrastructure/crypto/address"
	"github.com/weisyn/mintregistry/internal/core/infrastructure/crypto/key"
	"github.com/weisyn/mintregistry/internal/core/infrastructure/crypto/signature"
	"github.com/weisyn/mintregistry/internal/core/registry/testutil"
	"github.com/weisyn/mintregistry/pkg/interfaces/registry"
	"github.com/weisyn/mintregistry/pkg/types"
)

type memProofs map[string]bool

func (m memProofs) IsProofConsumed(id []byte) (bool, error) { return m[string(id)], nil }

func newSigner() (*Signer, *signature.SignatureService) {
	km := key.NewKeyManager()
	addrs := address.NewAddressService(km)
	sigs := signature.NewSignatureService(addrs)
	return NewSigner(km, addrs, sigs), sigs
}

func TestRequireAuthAcceptsValidConsent(t *testing.T) {
	signer, sigs := newSigner()
	alice := testutil.NewSigner(t)

	inv := types.NewInvocation("c1", types.MethodMint, 1, alice.Address, "3")
	authz, err := signer.Authorize(alice.PrivateKey, inv)
	require.NoError(t, err)
	assert.Equal(t, alice.Address, authz.Consents[0].Address)

	a := NewSignatureAuthorizer(sigs, memProofs{}, inv, authz)
	require.NoError(t, a.RequireAuth(alice.Address))
	// 同一调用内重复要求同一地址不重复记录
	require.NoError(t, a.RequireAuth(alice.Address))
	require.Len(t, a.Consumed(), 1)
	assert.Equal(t, ProofID(inv.Digest(), alice.Address), a.Consumed()[0])
}

func TestRequireAuthRejects(t *testing.T) {
	signer, sigs := newSigner()
	alice := testutil.NewSigner(t)
	bob := testutil.NewSigner(t)

	inv := types.NewInvocation("c1", types.MethodMint, 1, bob.Address, "3")
	signed, err := signer.Authorize(alice.PrivateKey, inv)
	require.NoError(t, err)

	t.Run("缺少授权", func(t *testing.T) {
		a := NewSignatureAuthorizer(sigs, memProofs{}, inv, nil)
		assert.ErrorIs(t, a.RequireAuth(bob.Address), registry.ErrUnauthorized)
	})

	t.Run("他人签名冒充", func(t *testing.T) {
		forged := &types.Authorization{Nonce: 1, Consents: []types.Consent{{
			Address:   bob.Address,
			Signature: signed.Consents[0].Signature,
		}}}
		a := NewSignatureAuthorizer(sigs, memProofs{}, inv, forged)
		assert.ErrorIs(t, a.RequireAuth(bob.Address), registry.ErrUnauthorized)
	})

	t.Run("签名格式错误", func(t *testing.T) {
		bad := &types.Authorization{Consents: []types.Consent{{Address: alice.Address, Signature: "zz"}}}
		a := NewSignatureAuthorizer(sigs, memProofs{}, inv, bad)
		assert.ErrorIs(t, a.RequireAuth(alice.Address), registry.ErrUnauthorized)
	})

	t.Run("参数不同的调用", func(t *testing.T) {
		other := types.NewInvocation("c1", types.MethodMint, 1, bob.Address, "4")
		a := NewSignatureAuthorizer(sigs, memProofs{}, other, signed)
		assert.ErrorIs(t, a.RequireAuth(alice.Address), registry.ErrUnauthorized)
	})

	t.Run("证明已被使用", func(t *testing.T) {
		proofs := memProofs{string(ProofID(inv.Digest(), alice.Address)): true}
		a := NewSignatureAuthorizer(sigs, proofs, inv, signed)
		assert.ErrorIs(t, a.RequireAuth(alice.Address), registry.ErrUnauthorized)
		assert.Empty(t, a.Consumed())
	})
}

func TestAllowList(t *testing.T) {
	l := Allow("Ca", "Cb")
	assert.NoError(t, l.RequireAuth("Ca"))
	assert.ErrorIs(t, l.RequireAuth("Cc"), registry.ErrUnauthorized)
	assert.NoError(t, AllowAll{}.RequireAuth("anything"))
}
