package solana

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyVaultRoundTrip(t *testing.T) {
	vault, err := NewKeyVault("test-passphrase")
	require.NoError(t, err)

	address, encrypted, err := vault.GenerateKeypair()
	require.NoError(t, err)
	require.NotEmpty(t, address)
	require.NotEmpty(t, encrypted)

	key, err := vault.Decrypt(encrypted)
	require.NoError(t, err)
	assert.Equal(t, address, key.PublicKey().String())
}

func TestKeyVaultWrongPassphraseFails(t *testing.T) {
	vault, err := NewKeyVault("correct")
	require.NoError(t, err)

	_, encrypted, err := vault.GenerateKeypair()
	require.NoError(t, err)

	other, err := NewKeyVault("wrong")
	require.NoError(t, err)

	_, err = other.Decrypt(encrypted)
	assert.Error(t, err)
}

func TestKeyVaultRejectsEmptyPassphrase(t *testing.T) {
	_, err := NewKeyVault("")
	assert.Error(t, err)
}

func TestKeyVaultRejectsTruncatedCiphertext(t *testing.T) {
	vault, err := NewKeyVault("test-passphrase")
	require.NoError(t, err)

	_, err = vault.Decrypt("AAAA")
	assert.Error(t, err)
}
