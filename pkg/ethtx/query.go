package ethtx

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"transfer-core/pkg/rpcclient"
)

// Block tags accepted by the read methods.
const (
	TagLatest  = "latest"
	TagPending = "pending"
)

// Query 是独立的只读路径: 转账前的余额预检、转账后的到账核对、nonce 获取。
type Query struct {
	rpc *rpcclient.Client
}

func NewQuery(rpc *rpcclient.Client) *Query {
	return &Query{rpc: rpc}
}

// GetBalance wraps eth_getBalance. A never-used address is simply balance 0,
// not an error — the node answers "0x0" for fresh addresses.
func (q *Query) GetBalance(ctx context.Context, addr common.Address, blockTag string) (*big.Int, error) {
	if blockTag == "" {
		blockTag = TagLatest
	}
	var raw string
	if err := q.rpc.Call(ctx, &raw, "eth_getBalance", addr, blockTag); err != nil {
		return nil, err
	}
	return rpcclient.ParseQuantity(raw)
}

// GetNonce wraps eth_getTransactionCount.
//
// 默认使用 "pending" tag 是刻意的: 它包含已广播但未上链的交易，
// 同一账户快速连发时不会撞 nonce；用 "latest" 会拿到旧值被节点拒掉。
func (q *Query) GetNonce(ctx context.Context, addr common.Address, blockTag string) (uint64, error) {
	if blockTag == "" {
		blockTag = TagPending
	}
	var raw string
	if err := q.rpc.Call(ctx, &raw, "eth_getTransactionCount", addr, blockTag); err != nil {
		return 0, err
	}
	return rpcclient.ParseUint64(raw)
}
