package solana

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Client wraps the Solana JSON-RPC client used by every chain read and write
// in the service. It is constructed once at startup and injected into the
// handlers; no package-level connection state exists.
type Client struct {
	rpc *rpc.Client
}

// NewClient builds a client for the given RPC endpoint.
func NewClient(endpoint string) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("empty RPC endpoint")
	}
	return &Client{rpc: rpc.New(endpoint)}, nil
}

// RPC exposes the underlying JSON-RPC client for program-specific readers.
func (c *Client) RPC() *rpc.Client {
	return c.rpc
}

// GetAccountData fetches an account and returns its raw data bytes. A nil
// slice with nil error means the account does not exist.
func (c *Client) GetAccountData(ctx context.Context, pubkey solana.PublicKey) ([]byte, error) {
	res, err := c.rpc.GetAccountInfoWithOpts(ctx, pubkey, &rpc.GetAccountInfoOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		if err == rpc.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account %s: %w", pubkey, err)
	}
	if res == nil || res.Value == nil {
		return nil, nil
	}
	return res.Value.Data.GetBinary(), nil
}

// AccountExists reports whether the account has been created on chain.
func (c *Client) AccountExists(ctx context.Context, pubkey solana.PublicKey) (bool, error) {
	data, err := c.GetAccountData(ctx, pubkey)
	if err != nil {
		return false, err
	}
	return data != nil, nil
}

// GetLatestBlockhash returns a fresh blockhash for transaction assembly.
func (c *Client) GetLatestBlockhash(ctx context.Context) (solana.Hash, error) {
	res, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("failed to get latest blockhash: %w", err)
	}
	return res.Value.Blockhash, nil
}

// GetTransaction fetches a confirmed transaction by signature. Returns nil
// without error when the transaction has not propagated yet.
func (c *Client) GetTransaction(ctx context.Context, sig solana.Signature) (*rpc.GetTransactionResult, error) {
	maxVersion := uint64(0)
	res, err := c.rpc.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{
		Encoding:                       solana.EncodingBase64,
		Commitment:                     rpc.CommitmentConfirmed,
		MaxSupportedTransactionVersion: &maxVersion,
	})
	if err != nil {
		if err == rpc.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get transaction %s: %w", sig, err)
	}
	return res, nil
}
