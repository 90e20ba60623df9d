package ethtx

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"

	"transfer-core/pkg/rpcclient"
)

// Submitter broadcasts a signed raw transaction via eth_sendRawTransaction.
// 节点拒绝 (nonce too low / underpriced / insufficient funds) 会包装成
// *RejectedError, 并且不会自动重试 —— 要不要换 nonce 或加价重发是调用方的事。
type Submitter struct {
	rpc *rpcclient.Client
}

func NewSubmitter(rpc *rpcclient.Client) *Submitter {
	return &Submitter{rpc: rpc}
}

// Submit sends the raw transaction and returns the 32-byte hash the node
// acknowledged it under. The hash is content-addressed, so it matches
// signed.TxHash for an accepting node.
func (s *Submitter) Submit(ctx context.Context, signed *SignedTransaction) (common.Hash, error) {
	var result string
	err := s.rpc.Call(ctx, &result, "eth_sendRawTransaction", signed.RawTx)
	if err != nil {
		var nodeErr *rpcclient.RpcError
		if errors.As(err, &nodeErr) {
			return common.Hash{}, &RejectedError{
				Reason: classifyRejection(nodeErr.Message),
				Err:    nodeErr,
			}
		}
		return common.Hash{}, err
	}
	return common.HexToHash(result), nil
}
