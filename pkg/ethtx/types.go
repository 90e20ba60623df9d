package ethtx

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// GasLimitTransfer is the fixed intrinsic cost of a plain value transfer.
// Any non-empty call data needs a larger limit, which this package does not
// build (value transfers only).
const GasLimitTransfer uint64 = 21000

// UnsignedTransaction is the envelope produced by the Builder and consumed by
// Sign. It is a transient value object; nothing holds on to it after signing.
type UnsignedTransaction struct {
	Nonce    uint64
	To       common.Address
	ValueWei *big.Int
	GasLimit uint64
	Fee      FeePolicy
	ChainID  *big.Int
}

// SignedTransaction 是签名产物，与其来源的 UnsignedTransaction 一一对应，
// 产生后不可变。RawTx 即可直接广播的 0x 前缀序列化字节。
type SignedTransaction struct {
	Unsigned UnsignedTransaction
	TxHash   common.Hash
	RawTx    string
}

// ConfirmationState enumerates the tracker's view of a submitted transaction.
type ConfirmationState int

const (
	StatePending ConfirmationState = iota
	StateIncluded
	StateNotFound // transient "not yet seen"; never returned as final
	StateTimedOut
)

func (s ConfirmationState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateIncluded:
		return "included"
	case StateNotFound:
		return "not_found"
	case StateTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// ConfirmationStatus is the tracker's result. Terminal states are Included and
// TimedOut; TimedOut is not a failure — the transaction may still be mined
// later and the caller can re-poll with the same hash.
type ConfirmationStatus struct {
	State       ConfirmationState
	BlockNumber uint64
	Success     bool // receipt status flag, only meaningful when Included
	GasUsed     uint64
	// EffectiveGasPriceWei is what the node actually charged per gas unit.
	EffectiveGasPriceWei *big.Int
}
