package solana

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Signer holds a server-side keypair used to co-sign transactions. Two are
// configured: the general platform fee payer and the shared-LP position
// holder. Secret material never leaves the process.
type Signer struct {
	key solana.PrivateKey
}

// NewSigner parses a base58-encoded secret key.
func NewSigner(base58Secret string) (*Signer, error) {
	if base58Secret == "" {
		return nil, fmt.Errorf("empty signer secret")
	}
	key, err := solana.PrivateKeyFromBase58(base58Secret)
	if err != nil {
		return nil, fmt.Errorf("invalid signer secret: %w", err)
	}
	return &Signer{key: key}, nil
}

// PublicKey returns the signer's address.
func (s *Signer) PublicKey() solana.PublicKey {
	return s.key.PublicKey()
}

// PartialSign applies this signer's signature to the transaction, leaving
// slots for the remaining required signers untouched so the client can add
// the creator's signature afterwards.
func (s *Signer) PartialSign(tx *solana.Transaction) error {
	_, err := tx.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(s.key.PublicKey()) {
			return &s.key
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to partially sign transaction: %w", err)
	}
	return nil
}

// SignWith applies multiple server-held keys in one pass; used at submission
// time when the config or mint keypair must co-sign next to the fee payer.
func SignWith(tx *solana.Transaction, keys ...solana.PrivateKey) error {
	_, err := tx.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
		for i := range keys {
			if key.Equals(keys[i].PublicKey()) {
				return &keys[i]
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}
	return nil
}
