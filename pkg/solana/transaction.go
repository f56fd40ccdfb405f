package solana

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/sirupsen/logrus"
)

// ErrBlockhashExpired marks a send failure where the transaction's blockhash
// fell out of the recent window. Callers rebuild against a fresh blockhash
// and submit again instead of surfacing the error.
var ErrBlockhashExpired = errors.New("transaction blockhash expired")

// FirstSignature returns the fee payer signature of a fully signed
// transaction, which is the transaction's on-chain identity.
func FirstSignature(tx *solana.Transaction) (solana.Signature, error) {
	if len(tx.Signatures) == 0 {
		return solana.Signature{}, errors.New("transaction has no signatures")
	}
	return tx.Signatures[0], nil
}

// SendAndConfirm submits a signed transaction and polls until it reaches
// confirmed commitment. A node replying "already been processed" means a
// previous attempt landed; the signature recovered from the transaction
// itself is returned as success.
func (c *Client) SendAndConfirm(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "already been processed") {
			recovered, sigErr := FirstSignature(tx)
			if sigErr != nil {
				return solana.Signature{}, fmt.Errorf("transaction already processed but signature unavailable: %w", sigErr)
			}
			logrus.WithField("signature", recovered.String()).
				Info("transaction already processed, reusing prior signature")
			return recovered, nil
		}
		if strings.Contains(msg, "blockhashnotfound") || strings.Contains(msg, "blockhash not found") {
			return solana.Signature{}, ErrBlockhashExpired
		}
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
	}

	if err := c.waitForConfirmation(ctx, sig); err != nil {
		return solana.Signature{}, err
	}
	return sig, nil
}

// waitForConfirmation polls signature status with exponential backoff until
// the transaction confirms, fails on chain, or the deadline passes.
func (c *Client) waitForConfirmation(ctx context.Context, sig solana.Signature) error {
	operation := func() (struct{}, error) {
		res, err := c.rpc.GetSignatureStatuses(ctx, true, sig)
		if err != nil {
			return struct{}{}, fmt.Errorf("failed to get signature status: %w", err)
		}
		if len(res.Value) == 0 || res.Value[0] == nil {
			return struct{}{}, errors.New("transaction not yet confirmed")
		}
		status := res.Value[0]
		if status.Err != nil {
			return struct{}{}, backoff.Permanent(fmt.Errorf("transaction %s failed on chain: %v", sig, status.Err))
		}
		switch status.ConfirmationStatus {
		case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
			return struct{}{}, nil
		}
		return struct{}{}, errors.New("transaction not yet confirmed")
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(60*time.Second),
	)
	if err != nil {
		return fmt.Errorf("confirmation of %s: %w", sig, err)
	}
	return nil
}
