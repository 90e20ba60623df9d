package ethtx

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// ErrInvalidFeePolicy: legacy 和 fee-market 字段同时出现 (或都缺失)。
var ErrInvalidFeePolicy = errors.New("fee policy must set exactly one of gas_price or max_fee/max_priority_fee")

// SerializationError: chainId 或某个数值字段超出目标交易类型可表示的范围。
type SerializationError struct {
	Field string
	Err   error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialize transaction: field %s: %v", e.Field, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// InsufficientFundsError is the advisory pre-flight check result. It is NOT
// authoritative — the node decides at broadcast time, and the balance may have
// changed in between. Never silently corrected; surfaced for the caller.
type InsufficientFundsError struct {
	NeedWei *big.Int
	HaveWei *big.Int
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds (pre-flight): need %s wei, have %s wei", e.NeedWei, e.HaveWei)
}

// RejectReason classifies why the node refused a raw transaction.
type RejectReason string

const (
	ReasonNonceTooLow       RejectReason = "nonce_too_low"
	ReasonUnderpriced       RejectReason = "underpriced"
	ReasonInsufficientFunds RejectReason = "insufficient_funds"
	ReasonOther             RejectReason = "other"
)

// RejectedError: 节点拒绝了广播。这里不做自动重试 —— 是否用新 nonce/新费率
// 重建重发由调用方决定。
type RejectedError struct {
	Reason RejectReason
	Err    error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("transaction rejected (%s): %v", e.Reason, e.Err)
}

func (e *RejectedError) Unwrap() error { return e.Err }

// classifyRejection maps the node's message onto a coarse reason. Message
// formats differ between clients, so this is substring matching on the common
// geth/erigon wordings.
func classifyRejection(msg string) RejectReason {
	m := strings.ToLower(msg)
	switch {
	case strings.Contains(m, "nonce too low"):
		return ReasonNonceTooLow
	case strings.Contains(m, "underpriced"):
		return ReasonUnderpriced
	case strings.Contains(m, "insufficient funds"):
		return ReasonInsufficientFunds
	default:
		return ReasonOther
	}
}
