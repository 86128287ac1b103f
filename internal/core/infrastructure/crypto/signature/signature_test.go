package signature

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/mintregistry/internal/core/infrastructure/crypto/address"
	"github.com/weisyn/mintregistry/internal/core/infrastructure/crypto/key"
)

func newTestService(t *testing.T) (*SignatureService, *address.AddressService, []byte, string) {
	t.Helper()
	keyManager := key.NewKeyManager()
	addressManager := address.NewAddressService(keyManager)

	privateKey, _, err := keyManager.GenerateKeyPair()
	require.NoError(t, err)
	addr, err := addressManager.PrivateKeyToAddress(privateKey)
	require.NoError(t, err)

	return NewSignatureService(addressManager), addressManager, privateKey, addr
}

func TestSignAndRecover(t *testing.T) {
	ss, _, priv, addr := newTestService(t)

	testCases := []struct {
		name string
		data []byte
	}{
		{name: "普通消息", data: []byte("这是一条测试消息")},
		{name: "空消息", data: []byte{}},
		{name: "二进制数据", data: []byte{0x00, 0x01, 0x02, 0xFF, 0xFE}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			hash := sha256.Sum256(tc.data)

			sig, err := ss.SignHash(hash[:], priv)
			require.NoError(t, err)
			assert.Len(t, sig, RecoverableSignatureLength)

			recovered, err := ss.RecoverAddress(hash[:], sig)
			require.NoError(t, err)
			assert.Equal(t, addr, recovered)
			assert.NoError(t, ss.VerifyAddress(hash[:], sig, addr))
		})
	}
}

func TestVerifyAddressMismatch(t *testing.T) {
	ss, _, priv, _ := newTestService(t)
	_, _, _, other := newTestService(t)

	hash := sha256.Sum256([]byte("mint"))
	sig, err := ss.SignHash(hash[:], priv)
	require.NoError(t, err)

	assert.ErrorIs(t, ss.VerifyAddress(hash[:], sig, other), ErrAddressMismatch)

	// 摘要被篡改后恢复出的是另一个地址
	tampered := sha256.Sum256([]byte("mint!"))
	recovered, err := ss.RecoverAddress(tampered[:], sig)
	if err == nil {
		assert.NotEqual(t, other, recovered)
	}
}

func TestInvalidInputs(t *testing.T) {
	ss, _, priv, _ := newTestService(t)
	hash := sha256.Sum256([]byte("x"))

	_, err := ss.SignHash([]byte{1, 2, 3}, priv)
	assert.ErrorIs(t, err, ErrInvalidHashLength)

	_, err = ss.RecoverPublicKey(hash[:], make([]byte, 64))
	assert.ErrorIs(t, err, ErrInvalidSignature)

	badRecID := make([]byte, RecoverableSignatureLength)
	badRecID[64] = 7
	_, err = ss.RecoverPublicKey(hash[:], badRecID)
	assert.ErrorIs(t, err, ErrInvalidRecoveryID)

	_, err = NewSignatureService(nil).RecoverAddress(hash[:], badRecID)
	assert.Error(t, err)
}
