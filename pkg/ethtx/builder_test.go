package ethtx

import (
	"context"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"transfer-core/pkg/rpcclient"
)

var (
	testFrom = common.HexToAddress("0x6CA38c708c1F82eAED6520bEA36a224411297cda")
	testTo   = common.HexToAddress("0x9858EfFD232B4033E47d90003D41EC34EcaEda94")
)

// balanceStub 返回固定的 pending nonce 和余额。
func balanceStub(t *testing.T, nonce uint64, balanceWei *big.Int) *rpcclient.Client {
	return newStubClient(t, func(method string, params []json.RawMessage) (interface{}, *stubError) {
		switch method {
		case "eth_getTransactionCount":
			// builder 必须用 pending tag 取 nonce
			var tag string
			require.NoError(t, json.Unmarshal(params[1], &tag))
			require.Equal(t, TagPending, tag)
			return rpcclient.FormatUint64(nonce), nil
		case "eth_getBalance":
			return rpcclient.FormatQuantity(balanceWei), nil
		default:
			t.Fatalf("unexpected method %s", method)
			return nil, nil
		}
	})
}

func TestBuildTransfer(t *testing.T) {
	// 余额 0.02 ETH, 转 0.01 ETH, 100 gwei × 21000 gas
	// required = 1e16 + 2.1e15 = 12_100_000_000_000_000 wei < 2e16 → 通过
	balance, _ := new(big.Int).SetString("20000000000000000", 10)
	value, _ := new(big.Int).SetString("10000000000000000", 10)

	client := balanceStub(t, 7, balance)
	builder := NewBuilder(NewQuery(client), big.NewInt(11155111), 0)

	fee := LegacyFee{GasPriceWei: GweiToWei(100)}
	unsigned, err := builder.Build(context.Background(), testFrom, testTo, value, fee, 0)
	require.NoError(t, err)

	require.Equal(t, uint64(7), unsigned.Nonce)
	require.Equal(t, testTo, unsigned.To)
	require.Equal(t, value.String(), unsigned.ValueWei.String())
	require.Equal(t, GasLimitTransfer, unsigned.GasLimit)
	require.Equal(t, int64(11155111), unsigned.ChainID.Int64())
}

func TestBuildInsufficientFunds(t *testing.T) {
	// 余额刚好等于转账额, 付不起 gas
	value, _ := new(big.Int).SetString("10000000000000000", 10)

	client := balanceStub(t, 0, value)
	builder := NewBuilder(NewQuery(client), big.NewInt(11155111), 0)

	fee := LegacyFee{GasPriceWei: GweiToWei(100)}
	_, err := builder.Build(context.Background(), testFrom, testTo, value, fee, 0)

	var insufficient *InsufficientFundsError
	require.ErrorAs(t, err, &insufficient)
	// need = value + 21000 × 100 gwei
	require.Equal(t, "12100000000000000", insufficient.NeedWei.String())
	require.Equal(t, value.String(), insufficient.HaveWei.String())
}

func TestBuildValidation(t *testing.T) {
	client := balanceStub(t, 0, big.NewInt(0))
	builder := NewBuilder(NewQuery(client), big.NewInt(1), 0)
	ctx := context.Background()
	fee := LegacyFee{GasPriceWei: GweiToWei(1)}

	_, err := builder.Build(ctx, testFrom, testTo, big.NewInt(1), nil, 0)
	require.ErrorIs(t, err, ErrInvalidFeePolicy)

	_, err = builder.Build(ctx, testFrom, testTo, big.NewInt(1), LegacyFee{}, 0)
	require.ErrorIs(t, err, ErrInvalidFeePolicy)

	_, err = builder.Build(ctx, testFrom, testTo, big.NewInt(-1), fee, 0)
	require.Error(t, err)

	// gas 上限低于原生转账固定成本
	_, err = builder.Build(ctx, testFrom, testTo, big.NewInt(1), fee, 20999)
	require.Error(t, err)
}

func TestBuildNodeErrorPropagates(t *testing.T) {
	client := newStubClient(t, func(method string, params []json.RawMessage) (interface{}, *stubError) {
		return nil, &stubError{Code: -32000, Message: "server busy"}
	})
	builder := NewBuilder(NewQuery(client), big.NewInt(1), 0)

	_, err := builder.Build(context.Background(), testFrom, testTo, big.NewInt(1), LegacyFee{GasPriceWei: GweiToWei(1)}, 0)
	var nodeErr *rpcclient.RpcError
	require.ErrorAs(t, err, &nodeErr)
}
