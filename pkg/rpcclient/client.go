package rpcclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// Client 是对单个节点 JSON-RPC 2.0 端点的薄封装。
// 它只负责一次请求/响应和数值的 hex 编解码，不做任何重试；
// 重试策略由调用方 (Submitter / ConfirmationTracker) 自己决定。
type Client struct {
	endpoint string
	rpc      *rpc.Client
}

// Dial connects to the given HTTP(S) JSON-RPC endpoint.
func Dial(endpoint string) (*Client, error) {
	c, err := rpc.Dial(endpoint)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	return &Client{endpoint: endpoint, rpc: c}, nil
}

// DialContext is like Dial but honors the context during connection setup.
func DialContext(ctx context.Context, endpoint string) (*Client, error) {
	c, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	return &Client{endpoint: endpoint, rpc: c}, nil
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

func (c *Client) Close() {
	c.rpc.Close()
}

// Call issues one synchronous JSON-RPC call and decodes the result into result
// (a pointer). Errors are classified into the three buckets callers care about:
//
//   - *RpcError       节点返回了 JSON-RPC error 对象 (code/message 原样透传)
//   - *DecodeError    响应体格式不对
//   - *TransportError 连接 / 超时等网络层失败
func (c *Client) Call(ctx context.Context, result interface{}, method string, params ...interface{}) error {
	err := c.rpc.CallContext(ctx, result, method, params...)
	if err == nil {
		return nil
	}

	var nodeErr rpc.Error
	if errors.As(err, &nodeErr) {
		return &RpcError{Code: nodeErr.ErrorCode(), Message: nodeErr.Error()}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &DecodeError{What: "response body", Err: err}
	}

	return &TransportError{Err: err}
}

// ParseQuantity decodes a 0x-prefixed hex quantity into a big integer.
// "0x0" is valid zero. "0x" denotes zero-length byte DATA on the wire, not a
// number, so it is rejected here — as are leading zeros ("0x01").
func ParseQuantity(s string) (*big.Int, error) {
	v, err := hexutil.DecodeBig(s)
	if err != nil {
		return nil, &DecodeError{What: fmt.Sprintf("quantity %q", s), Err: err}
	}
	return v, nil
}

// ParseUint64 decodes a 0x-prefixed hex quantity into a uint64.
func ParseUint64(s string) (uint64, error) {
	v, err := hexutil.DecodeUint64(s)
	if err != nil {
		return 0, &DecodeError{What: fmt.Sprintf("quantity %q", s), Err: err}
	}
	return v, nil
}

// FormatQuantity encodes a big integer as minimal-length 0x-prefixed hex.
func FormatQuantity(v *big.Int) string {
	return hexutil.EncodeBig(v)
}

// FormatUint64 encodes a uint64 as minimal-length 0x-prefixed hex.
func FormatUint64(v uint64) string {
	return hexutil.EncodeUint64(v)
}
