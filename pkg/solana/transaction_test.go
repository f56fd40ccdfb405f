package solana

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSendErrorServer answers every JSON-RPC call with the given error
// message, imitating a node rejecting sendTransaction.
func newSendErrorServer(t *testing.T, message string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     interface{} `json:"id"`
			Method string      `json:"method"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"error":   map[string]interface{}{"code": -32002, "message": message},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func signedMemoTransaction(t *testing.T) *solana.Transaction {
	t.Helper()
	wallet := solana.NewWallet()
	ix := solana.NewInstruction(MemoProgramID, []*solana.AccountMeta{
		{PublicKey: wallet.PublicKey(), IsSigner: true, IsWritable: false},
	}, []byte("claim receipt"))

	tx, err := solana.NewTransaction(
		[]solana.Instruction{ix},
		solana.Hash{},
		solana.TransactionPayer(wallet.PublicKey()),
	)
	require.NoError(t, err)

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(wallet.PublicKey()) {
			k := wallet.PrivateKey
			return &k
		}
		return nil
	})
	require.NoError(t, err)
	return tx
}

func TestFirstSignature(t *testing.T) {
	tx := signedMemoTransaction(t)
	sig, err := FirstSignature(tx)
	require.NoError(t, err)
	assert.Equal(t, tx.Signatures[0], sig)

	_, err = FirstSignature(&solana.Transaction{})
	assert.Error(t, err)
}

func TestSendAndConfirmRecoversProcessedTransaction(t *testing.T) {
	srv := newSendErrorServer(t, "Transaction simulation failed: This transaction has already been processed")
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)
	tx := signedMemoTransaction(t)

	// A duplicate send means an earlier attempt landed; the signature from
	// the transaction itself comes back as success without any status poll.
	sig, err := client.SendAndConfirm(context.Background(), tx)
	require.NoError(t, err)
	assert.Equal(t, tx.Signatures[0], sig)
}

func TestSendAndConfirmMapsExpiredBlockhash(t *testing.T) {
	srv := newSendErrorServer(t, "Blockhash not found")
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)
	tx := signedMemoTransaction(t)

	_, err = client.SendAndConfirm(context.Background(), tx)
	assert.ErrorIs(t, err, ErrBlockhashExpired)
}
