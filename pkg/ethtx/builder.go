package ethtx

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Builder assembles unsigned value-transfer envelopes. The nonce is always
// fetched fresh from the node's pending view at build time; the balance check
// is advisory only (the node is the final authority).
//
// 并发注意: 同一账户并发 Build 会拿到相同的 pending nonce，产生互相冲突的
// 交易。需要并发转账的调用方必须自己对 nonce 获取做串行化
// (worker 用的是按账户的 Redis 锁)，或者接受节点拒掉后来者。
type Builder struct {
	query    *Query
	chainID  *big.Int
	gasLimit uint64 // default applied when the caller passes 0
}

func NewBuilder(query *Query, chainID *big.Int, defaultGasLimit uint64) *Builder {
	if defaultGasLimit == 0 {
		defaultGasLimit = GasLimitTransfer
	}
	return &Builder{query: query, chainID: chainID, gasLimit: defaultGasLimit}
}

// Build constructs an UnsignedTransaction for a plain value transfer.
// gasLimit 0 means "use the builder's default" (21000 for value transfers).
//
// Returns *InsufficientFundsError when valueWei + gasLimit×ceiling exceeds the
// sender's queried balance. 这是软预检: 余额在查询和广播之间可能变化，
// 通过了预检节点照样可能拒，调用方要把这当正常情况处理。
func (b *Builder) Build(ctx context.Context, from, to common.Address, valueWei *big.Int, fee FeePolicy, gasLimit uint64) (*UnsignedTransaction, error) {
	if fee == nil {
		return nil, ErrInvalidFeePolicy
	}
	if err := fee.validate(); err != nil {
		return nil, err
	}
	if valueWei == nil || valueWei.Sign() < 0 {
		return nil, errors.New("transfer value must be a non-negative wei amount")
	}
	if gasLimit == 0 {
		gasLimit = b.gasLimit
	}
	if gasLimit < GasLimitTransfer {
		return nil, errors.New("gas limit below intrinsic transfer cost (21000)")
	}

	nonce, err := b.query.GetNonce(ctx, from, TagPending)
	if err != nil {
		return nil, err
	}

	balance, err := b.query.GetBalance(ctx, from, TagLatest)
	if err != nil {
		return nil, err
	}

	// required = value + gasLimit × worst-case unit price
	maxGasCost := new(big.Int).Mul(new(big.Int).SetUint64(gasLimit), fee.CeilingWei())
	required := new(big.Int).Add(valueWei, maxGasCost)
	if required.Cmp(balance) > 0 {
		return nil, &InsufficientFundsError{NeedWei: required, HaveWei: balance}
	}

	return &UnsignedTransaction{
		Nonce:    nonce,
		To:       to,
		ValueWei: new(big.Int).Set(valueWei),
		GasLimit: gasLimit,
		Fee:      fee,
		ChainID:  new(big.Int).Set(b.chainID),
	}, nil
}
