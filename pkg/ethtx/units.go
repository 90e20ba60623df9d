package ethtx

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/params"
	"github.com/shopspring/decimal"
)

// 人类输入用 ether/gwei, 链上一律用 wei。decimal 负责十进制换算，
// 避免 float 把 0.01 ETH 算歪。

var ErrFractionalWei = errors.New("amount has a fractional wei component")

// EtherToWei converts a decimal ether amount to integer wei.
// Rejects negative amounts and amounts finer than 1 wei.
func EtherToWei(amount decimal.Decimal) (*big.Int, error) {
	if amount.IsNegative() {
		return nil, errors.New("amount must be non-negative")
	}
	wei := amount.Shift(18)
	if !wei.IsInteger() {
		return nil, ErrFractionalWei
	}
	return wei.BigInt(), nil
}

// WeiToEther renders an integer wei amount as decimal ether for display.
func WeiToEther(wei *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(wei, 0).Shift(-18)
}

// GweiToWei converts a whole gwei amount (the usual unit for gas prices).
func GweiToWei(gwei int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(gwei), big.NewInt(params.GWei))
}
