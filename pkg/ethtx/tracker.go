package ethtx

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"transfer-core/pkg/rpcclient"
)

// receiptResult is the subset of eth_getTransactionReceipt we consume.
// 全部是 hex quantity 字段；pre-Byzantium 的 receipt 没有 status。
type receiptResult struct {
	Status            *hexutil.Uint64 `json:"status"`
	BlockNumber       *hexutil.Big    `json:"blockNumber"`
	GasUsed           hexutil.Uint64  `json:"gasUsed"`
	EffectiveGasPrice *hexutil.Big    `json:"effectiveGasPrice"`
}

// Tracker polls the node for a transaction receipt. Each poll is one RPC call
// and nothing is cached — confirmation state is only ever the node's current
// view.
//
// 状态机: Pending → Included (首个非空 receipt, 成功/失败看 status 标志位);
// Pending → TimedOut (到点还没 receipt)。"NotFound" 只是一次瞬时的
// "还没看到"，永远不会作为最终结果返回。
type Tracker struct {
	rpc      *rpcclient.Client
	interval time.Duration
	timeout  time.Duration
}

func NewTracker(rpc *rpcclient.Client, pollInterval, timeout time.Duration) *Tracker {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Tracker{rpc: rpc, interval: pollInterval, timeout: timeout}
}

// AwaitConfirmation blocks until the transaction is included, the timeout
// elapses, or an unrecoverable error occurs. Transport-level errors are
// treated as transient and polling continues; a node-reported RpcError aborts.
//
// TimedOut 不是失败: 交易之后仍可能被打包，调用方可以拿同一个 hash 再来。
func (t *Tracker) AwaitConfirmation(ctx context.Context, txHash common.Hash) (ConfirmationStatus, error) {
	deadline := time.NewTimer(t.timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		status, err := t.poll(ctx, txHash)
		if err != nil {
			return ConfirmationStatus{State: StatePending}, err
		}
		if status.State == StateIncluded {
			return status, nil
		}

		select {
		case <-ctx.Done():
			return ConfirmationStatus{State: StatePending}, ctx.Err()
		case <-deadline.C:
			return ConfirmationStatus{State: StateTimedOut}, nil
		case <-ticker.C:
		}
	}
}

// poll performs a single receipt read.
func (t *Tracker) poll(ctx context.Context, txHash common.Hash) (ConfirmationStatus, error) {
	var rec *receiptResult
	if err := t.rpc.Call(ctx, &rec, "eth_getTransactionReceipt", txHash); err != nil {
		var transport *rpcclient.TransportError
		if errors.As(err, &transport) {
			// 网络抖动当作瞬时 NotFound, 下一轮继续
			return ConfirmationStatus{State: StateNotFound}, nil
		}
		return ConfirmationStatus{}, err
	}

	// null receipt: not yet seen by the node
	if rec == nil || rec.BlockNumber == nil {
		return ConfirmationStatus{State: StatePending}, nil
	}

	status := ConfirmationStatus{
		State:       StateIncluded,
		BlockNumber: rec.BlockNumber.ToInt().Uint64(),
		GasUsed:     uint64(rec.GasUsed),
		Success:     rec.Status == nil || uint64(*rec.Status) == 1,
	}
	if rec.EffectiveGasPrice != nil {
		status.EffectiveGasPriceWei = rec.EffectiveGasPrice.ToInt()
	}
	return status, nil
}
