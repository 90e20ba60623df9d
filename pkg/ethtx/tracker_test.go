package ethtx

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

var testTxHash = common.HexToHash("0x1111111111111111111111111111111111111111111111111111111111111111")

func TestAwaitConfirmationIncluded(t *testing.T) {
	var calls atomic.Int64
	client := newStubClient(t, func(method string, params []json.RawMessage) (interface{}, *stubError) {
		require.Equal(t, "eth_getTransactionReceipt", method)
		// 前两轮还没打包, 第三轮出 receipt
		if calls.Add(1) < 3 {
			return nil, nil
		}
		return map[string]interface{}{
			"status":            "0x1",
			"blockNumber":       "0x100",
			"gasUsed":           "0x5208",
			"effectiveGasPrice": "0x174876e800", // 100 gwei
		}, nil
	})

	tracker := NewTracker(client, 10*time.Millisecond, 5*time.Second)
	status, err := tracker.AwaitConfirmation(context.Background(), testTxHash)
	require.NoError(t, err)

	require.Equal(t, StateIncluded, status.State)
	require.True(t, status.Success)
	require.Equal(t, uint64(0x100), status.BlockNumber)
	require.Equal(t, uint64(21000), status.GasUsed)
	require.Equal(t, "100000000000", status.EffectiveGasPriceWei.String())
	require.GreaterOrEqual(t, calls.Load(), int64(3))
}

func TestAwaitConfirmationReverted(t *testing.T) {
	client := newStubClient(t, func(method string, params []json.RawMessage) (interface{}, *stubError) {
		return map[string]interface{}{
			"status":      "0x0",
			"blockNumber": "0x200",
			"gasUsed":     "0x5208",
		}, nil
	})

	tracker := NewTracker(client, 10*time.Millisecond, time.Second)
	status, err := tracker.AwaitConfirmation(context.Background(), testTxHash)
	require.NoError(t, err)

	// 上链但执行失败: Included + Success=false, 不是错误
	require.Equal(t, StateIncluded, status.State)
	require.False(t, status.Success)
	require.Equal(t, uint64(0x200), status.BlockNumber)
}

func TestAwaitConfirmationPreByzantium(t *testing.T) {
	// 老 receipt 没有 status 字段 ⇒ 视为成功
	client := newStubClient(t, func(method string, params []json.RawMessage) (interface{}, *stubError) {
		return map[string]interface{}{
			"blockNumber": "0x10",
			"gasUsed":     "0x5208",
		}, nil
	})

	tracker := NewTracker(client, 10*time.Millisecond, time.Second)
	status, err := tracker.AwaitConfirmation(context.Background(), testTxHash)
	require.NoError(t, err)
	require.Equal(t, StateIncluded, status.State)
	require.True(t, status.Success)
}

func TestAwaitConfirmationTimeout(t *testing.T) {
	client := newStubClient(t, func(method string, params []json.RawMessage) (interface{}, *stubError) {
		return nil, nil // 永远没有 receipt
	})

	tracker := NewTracker(client, 10*time.Millisecond, 100*time.Millisecond)
	status, err := tracker.AwaitConfirmation(context.Background(), testTxHash)

	// 超时是状态不是错误: hash 仍有效, 可以再追踪
	require.NoError(t, err)
	require.Equal(t, StateTimedOut, status.State)
}

func TestAwaitConfirmationNodeErrorAborts(t *testing.T) {
	client := newStubClient(t, func(method string, params []json.RawMessage) (interface{}, *stubError) {
		return nil, &stubError{Code: -32000, Message: "pruned history"}
	})

	tracker := NewTracker(client, 10*time.Millisecond, time.Second)
	_, err := tracker.AwaitConfirmation(context.Background(), testTxHash)
	require.Error(t, err)
}

func TestAwaitConfirmationContextCancel(t *testing.T) {
	client := newStubClient(t, func(method string, params []json.RawMessage) (interface{}, *stubError) {
		return nil, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	tracker := NewTracker(client, 10*time.Millisecond, 10*time.Second)
	_, err := tracker.AwaitConfirmation(ctx, testTxHash)
	require.ErrorIs(t, err, context.Canceled)
}
