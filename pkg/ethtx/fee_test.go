package ethtx

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFeePolicy(t *testing.T) {
	gwei := func(n int64) *big.Int { return GweiToWei(n) }

	t.Run("legacy", func(t *testing.T) {
		fee, err := ParseFeePolicy(gwei(100), nil, nil)
		require.NoError(t, err)
		legacy, ok := fee.(LegacyFee)
		require.True(t, ok)
		require.Equal(t, "100000000000", legacy.GasPriceWei.String())
		require.Equal(t, legacy.GasPriceWei, fee.CeilingWei())
	})

	t.Run("dynamic", func(t *testing.T) {
		fee, err := ParseFeePolicy(nil, gwei(120), gwei(2))
		require.NoError(t, err)
		dynamic, ok := fee.(DynamicFee)
		require.True(t, ok)
		require.Equal(t, dynamic.MaxFeeWei, fee.CeilingWei())
	})

	t.Run("both groups set", func(t *testing.T) {
		_, err := ParseFeePolicy(gwei(100), gwei(120), gwei(2))
		require.ErrorIs(t, err, ErrInvalidFeePolicy)
	})

	t.Run("neither set", func(t *testing.T) {
		_, err := ParseFeePolicy(nil, nil, nil)
		require.ErrorIs(t, err, ErrInvalidFeePolicy)
	})

	t.Run("zero gas price", func(t *testing.T) {
		_, err := ParseFeePolicy(big.NewInt(0), nil, nil)
		require.ErrorIs(t, err, ErrInvalidFeePolicy)
	})

	t.Run("tip above ceiling", func(t *testing.T) {
		_, err := ParseFeePolicy(nil, gwei(10), gwei(20))
		require.ErrorIs(t, err, ErrInvalidFeePolicy)
	})

	t.Run("tip only", func(t *testing.T) {
		// max_fee 缺失时 tip 单独出现也是非法的
		_, err := ParseFeePolicy(nil, nil, gwei(2))
		require.ErrorIs(t, err, ErrInvalidFeePolicy)
	})
}

func TestFeePolicyFromGwei(t *testing.T) {
	fee, err := FeePolicyFromGwei("legacy", 100, 0, 0)
	require.NoError(t, err)
	require.IsType(t, LegacyFee{}, fee)

	fee, err = FeePolicyFromGwei("", 100, 0, 0)
	require.NoError(t, err)
	require.IsType(t, LegacyFee{}, fee)

	fee, err = FeePolicyFromGwei("dynamic", 0, 120, 2)
	require.NoError(t, err)
	require.IsType(t, DynamicFee{}, fee)

	// eip1559 是 dynamic 的别名
	fee, err = FeePolicyFromGwei("eip1559", 0, 120, 2)
	require.NoError(t, err)
	require.IsType(t, DynamicFee{}, fee)

	_, err = FeePolicyFromGwei("bogus", 100, 0, 0)
	require.ErrorIs(t, err, ErrInvalidFeePolicy)
}
