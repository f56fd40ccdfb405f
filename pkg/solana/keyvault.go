package solana

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/gagliardetto/solana-go"
)

// KeyVault encrypts keypair secrets at rest with AES-256-GCM. Pending config
// keypairs and pooled mint keypairs sit in postgres between preparation and
// submission; only their public keys are ever returned to clients.
type KeyVault struct {
	passphrase string
}

// NewKeyVault derives the vault from the configured passphrase.
func NewKeyVault(passphrase string) (*KeyVault, error) {
	if passphrase == "" {
		return nil, errors.New("empty key vault passphrase")
	}
	return &KeyVault{passphrase: passphrase}, nil
}

// GenerateKeypair creates a fresh ed25519 keypair and returns its address
// together with the encrypted secret, ready for storage.
func (v *KeyVault) GenerateKeypair() (address string, encryptedSecret string, err error) {
	account := types.NewAccount()
	encrypted, err := v.Encrypt(account.PrivateKey)
	if err != nil {
		return "", "", err
	}
	return account.PublicKey.ToBase58(), encrypted, nil
}

// Encrypt seals raw secret key bytes.
func (v *KeyVault) Encrypt(secret []byte) (string, error) {
	block, err := aes.NewCipher(v.derivedKey())
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nonce, nonce, secret, nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt opens a sealed secret and returns the private key ready to sign.
func (v *KeyVault) Decrypt(encrypted string) (solana.PrivateKey, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}

	block, err := aes.NewCipher(v.derivedKey())
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	ciphertext = ciphertext[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}

	return solana.PrivateKey(plaintext), nil
}

func (v *KeyVault) derivedKey() []byte {
	hash := sha256.Sum256([]byte(v.passphrase))
	return hash[:]
}
