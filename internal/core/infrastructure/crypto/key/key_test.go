package key

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyManager(t *testing.T) {
	km := NewKeyManager()

	priv, pub, err := km.GenerateKeyPair()
	require.NoError(t, err)
	require.NoError(t, km.ValidatePrivateKey(priv))

	derived, err := km.DerivePublicKey(priv)
	require.NoError(t, err)
	assert.Equal(t, pub, derived)

	_, err = km.DerivePublicKey([]byte("bad"))
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)
}

func TestSecureWipe(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	SecureWipe(buf)
	assert.Equal(t, []byte{0, 0, 0, 0}, buf)
	assert.NotPanics(t, func() { SecureWipe(nil) })
}
