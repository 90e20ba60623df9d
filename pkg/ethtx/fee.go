package ethtx

import (
	"fmt"
	"math/big"
)

// FeePolicy 是两种互斥收费模型的 tagged variant:
// LegacyFee (gasPrice) 或 DynamicFee (EIP-1559 maxFee/maxPriorityFee)。
// 建模成 sum type 而不是带可选字段的结构体，"两种都填" 这种非法状态
// 在类型层面就不存在；扁平的配置/请求表面由 ParseFeePolicy 负责收敛。
type FeePolicy interface {
	// CeilingWei is the worst-case unit gas price, used for pre-flight
	// balance math (gasLimit × ceiling).
	CeilingWei() *big.Int

	validate() error
	isFeePolicy()
}

// LegacyFee is the pre-EIP-1559 model: a single gas price.
type LegacyFee struct {
	GasPriceWei *big.Int
}

func (f LegacyFee) CeilingWei() *big.Int { return f.GasPriceWei }
func (f LegacyFee) isFeePolicy()         {}

func (f LegacyFee) validate() error {
	if f.GasPriceWei == nil || f.GasPriceWei.Sign() <= 0 {
		return ErrInvalidFeePolicy
	}
	return nil
}

// DynamicFee is the EIP-1559 fee-market model.
type DynamicFee struct {
	MaxFeeWei         *big.Int
	MaxPriorityFeeWei *big.Int
}

func (f DynamicFee) CeilingWei() *big.Int { return f.MaxFeeWei }
func (f DynamicFee) isFeePolicy()         {}

func (f DynamicFee) validate() error {
	if f.MaxFeeWei == nil || f.MaxFeeWei.Sign() <= 0 {
		return ErrInvalidFeePolicy
	}
	if f.MaxPriorityFeeWei == nil || f.MaxPriorityFeeWei.Sign() < 0 {
		return ErrInvalidFeePolicy
	}
	// tip 不能超过总上限
	if f.MaxPriorityFeeWei.Cmp(f.MaxFeeWei) > 0 {
		return ErrInvalidFeePolicy
	}
	return nil
}

// ParseFeePolicy converts the flat optional-field surface (config files, JSON
// requests) into the variant. Exactly one model must be present: supplying
// both legacy and fee-market fields, or neither, is a construction error.
func ParseFeePolicy(gasPriceWei, maxFeeWei, maxPriorityFeeWei *big.Int) (FeePolicy, error) {
	legacySet := gasPriceWei != nil
	dynamicSet := maxFeeWei != nil || maxPriorityFeeWei != nil

	switch {
	case legacySet && dynamicSet:
		return nil, ErrInvalidFeePolicy
	case legacySet:
		f := LegacyFee{GasPriceWei: gasPriceWei}
		if err := f.validate(); err != nil {
			return nil, err
		}
		return f, nil
	case dynamicSet:
		tip := maxPriorityFeeWei
		if tip == nil {
			tip = new(big.Int)
		}
		f := DynamicFee{MaxFeeWei: maxFeeWei, MaxPriorityFeeWei: tip}
		if err := f.validate(); err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, ErrInvalidFeePolicy
	}
}

// FeePolicyFromGwei 把配置面的整数 gwei 值收敛成 variant。
// mode: "legacy" 或 "dynamic"。
func FeePolicyFromGwei(mode string, gasPriceGwei, maxFeeGwei, maxPriorityFeeGwei int64) (FeePolicy, error) {
	switch mode {
	case "", "legacy":
		return ParseFeePolicy(GweiToWei(gasPriceGwei), nil, nil)
	case "dynamic", "eip1559":
		return ParseFeePolicy(nil, GweiToWei(maxFeeGwei), GweiToWei(maxPriorityFeeGwei))
	default:
		return nil, fmt.Errorf("unknown fee mode %q: %w", mode, ErrInvalidFeePolicy)
	}
}
