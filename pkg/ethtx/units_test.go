package ethtx

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestEtherToWei(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr error
	}{
		{in: "1", want: "1000000000000000000"},
		{in: "0.01", want: "10000000000000000"},
		{in: "0", want: "0"},
		{in: "0.000000000000000001", want: "1"}, // 1 wei
		{in: "0.0000000000000000001", wantErr: ErrFractionalWei},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			wei, err := EtherToWei(decimal.RequireFromString(tt.in))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, wei.String())
		})
	}

	_, err := EtherToWei(decimal.RequireFromString("-1"))
	require.Error(t, err)
}

func TestWeiToEther(t *testing.T) {
	wei, ok := new(big.Int).SetString("10000000000000000", 10)
	require.True(t, ok)
	require.Equal(t, "0.01", WeiToEther(wei).String())
}

func TestGweiToWei(t *testing.T) {
	require.Equal(t, "100000000000", GweiToWei(100).String())
}
