package rpcclient

import "fmt"

// TransportError 表示网络层失败 (连接拒绝、超时、DNS 等)。
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "rpc transport: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// RpcError carries the node's JSON-RPC error object verbatim.
// The node is the single source of truth, so code/message are never rewritten.
type RpcError struct {
	Code    int
	Message string
}

func (e *RpcError) Error() string {
	return fmt.Sprintf("node error (code %d): %s", e.Code, e.Message)
}

// DecodeError 表示响应体或数值编码不符合预期。
type DecodeError struct {
	What string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.What, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
