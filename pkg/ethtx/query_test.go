package ethtx

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetBalanceFreshAddress(t *testing.T) {
	client := newStubClient(t, func(method string, params []json.RawMessage) (interface{}, *stubError) {
		require.Equal(t, "eth_getBalance", method)
		var tag string
		require.NoError(t, json.Unmarshal(params[1], &tag))
		require.Equal(t, TagLatest, tag) // 空 tag 默认 latest
		return "0x0", nil                // 从未用过的地址就是 0, 不是错误
	})

	balance, err := NewQuery(client).GetBalance(context.Background(), testFrom, "")
	require.NoError(t, err)
	require.Equal(t, "0", balance.String())
}

func TestGetNonceDefaultsToPending(t *testing.T) {
	client := newStubClient(t, func(method string, params []json.RawMessage) (interface{}, *stubError) {
		require.Equal(t, "eth_getTransactionCount", method)
		var tag string
		require.NoError(t, json.Unmarshal(params[1], &tag))
		require.Equal(t, TagPending, tag)
		return "0x2a", nil
	})

	nonce, err := NewQuery(client).GetNonce(context.Background(), testFrom, "")
	require.NoError(t, err)
	require.Equal(t, uint64(42), nonce)
}

func TestGetBalanceMalformedQuantity(t *testing.T) {
	client := newStubClient(t, func(method string, params []json.RawMessage) (interface{}, *stubError) {
		return "0x", nil // 空 DATA 不是合法 quantity
	})

	_, err := NewQuery(client).GetBalance(context.Background(), testFrom, TagLatest)
	require.Error(t, err)
}
