package ethtx

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func signedForTest(t *testing.T) *SignedTransaction {
	t.Helper()
	key, err := crypto.HexToECDSA(testPrivHex)
	require.NoError(t, err)
	signed, err := Sign(testUnsigned(LegacyFee{GasPriceWei: GweiToWei(100)}), key)
	require.NoError(t, err)
	return signed
}

func TestSubmitAccepted(t *testing.T) {
	signed := signedForTest(t)

	client := newStubClient(t, func(method string, params []json.RawMessage) (interface{}, *stubError) {
		require.Equal(t, "eth_sendRawTransaction", method)
		var raw string
		require.NoError(t, json.Unmarshal(params[0], &raw))
		require.Equal(t, signed.RawTx, raw)
		// 节点回的 hash 是 content-addressed 的, 与本地计算一致
		return signed.TxHash.Hex(), nil
	})

	hash, err := NewSubmitter(client).Submit(context.Background(), signed)
	require.NoError(t, err)
	require.Equal(t, signed.TxHash, hash)
}

func TestSubmitRejected(t *testing.T) {
	tests := []struct {
		name    string
		message string
		reason  RejectReason
	}{
		{name: "nonce too low", message: "nonce too low: next nonce 8, tx nonce 7", reason: ReasonNonceTooLow},
		{name: "underpriced", message: "replacement transaction underpriced", reason: ReasonUnderpriced},
		{name: "insufficient funds", message: "insufficient funds for gas * price + value", reason: ReasonInsufficientFunds},
		{name: "anything else", message: "txpool is full", reason: ReasonOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newStubClient(t, func(method string, params []json.RawMessage) (interface{}, *stubError) {
				return nil, &stubError{Code: -32000, Message: tt.message}
			})

			_, err := NewSubmitter(client).Submit(context.Background(), signedForTest(t))

			var rejected *RejectedError
			require.ErrorAs(t, err, &rejected)
			require.Equal(t, tt.reason, rejected.Reason)
		})
	}
}
