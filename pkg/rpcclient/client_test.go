package rpcclient

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type rpcErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// newStubNode 起一个只认 method 的 JSON-RPC 假节点。
func newStubNode(t *testing.T, handle func(req *rpcRequest) (interface{}, *rpcErrorBody)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		result, rpcErr := handle(&req)
		resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCallSuccess(t *testing.T) {
	srv := newStubNode(t, func(req *rpcRequest) (interface{}, *rpcErrorBody) {
		require.Equal(t, "eth_getBalance", req.Method)
		require.Len(t, req.Params, 2)
		return "0xde0b6b3a7640000", nil // 1 ETH
	})

	client, err := Dial(srv.URL)
	require.NoError(t, err)
	defer client.Close()

	var raw string
	err = client.Call(context.Background(), &raw, "eth_getBalance", "0x0000000000000000000000000000000000000001", "latest")
	require.NoError(t, err)
	require.Equal(t, "0xde0b6b3a7640000", raw)
}

func TestCallNodeError(t *testing.T) {
	srv := newStubNode(t, func(req *rpcRequest) (interface{}, *rpcErrorBody) {
		return nil, &rpcErrorBody{Code: -32000, Message: "nonce too low"}
	})

	client, err := Dial(srv.URL)
	require.NoError(t, err)
	defer client.Close()

	var raw string
	err = client.Call(context.Background(), &raw, "eth_sendRawTransaction", "0x00")
	require.Error(t, err)

	var nodeErr *RpcError
	require.ErrorAs(t, err, &nodeErr)
	// code/message 原样透传, 不改写
	require.Equal(t, -32000, nodeErr.Code)
	require.Contains(t, nodeErr.Message, "nonce too low")
}

func TestCallTransportError(t *testing.T) {
	srv := newStubNode(t, func(req *rpcRequest) (interface{}, *rpcErrorBody) {
		return "0x0", nil
	})

	client, err := Dial(srv.URL)
	require.NoError(t, err)
	defer client.Close()

	srv.Close() // 节点挂了

	var raw string
	err = client.Call(context.Background(), &raw, "eth_getBalance", "0x0000000000000000000000000000000000000001", "latest")
	require.Error(t, err)

	var transport *TransportError
	require.ErrorAs(t, err, &transport)
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string // 十进制
		wantErr bool
	}{
		{name: "zero", in: "0x0", want: "0"},
		{name: "one ether", in: "0xde0b6b3a7640000", want: "1000000000000000000"},
		{name: "empty data is not a quantity", in: "0x", wantErr: true},
		{name: "leading zero rejected", in: "0x01", wantErr: true},
		{name: "missing prefix", in: "ff", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseQuantity(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				var decodeErr *DecodeError
				require.ErrorAs(t, err, &decodeErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, v.String())
		})
	}
}

func TestParseUint64(t *testing.T) {
	v, err := ParseUint64("0x5")
	require.NoError(t, err)
	require.Equal(t, uint64(5), v)

	_, err = ParseUint64("0x")
	require.Error(t, err)
}

func TestFormatQuantity(t *testing.T) {
	// 最短形式编码, 无多余前导零
	require.Equal(t, "0x0", FormatQuantity(big.NewInt(0)))
	require.Equal(t, "0x1", FormatQuantity(big.NewInt(1)))
	require.Equal(t, "0xde0b6b3a7640000", FormatQuantity(new(big.Int).SetUint64(1000000000000000000)))
	require.Equal(t, "0x5208", FormatUint64(21000))
}
