package ethtx

import (
	"crypto/ecdsa"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// Sign 对未签名交易做规范序列化并用 secp256k1 私钥产生签名。
// 纯函数，无 I/O: 相同输入永远得到字节一致的输出 (go-ethereum 的签名
// nonce 是确定性生成的)，测试向量可复现。
//
// Fee policy 决定序列化的交易类型: LegacyFee → LegacyTx (EIP-155 签名),
// DynamicFee → DynamicFeeTx (type-2)。两种类型的字段集和编码不同，
// 节点按类型字节区分。
func Sign(u *UnsignedTransaction, key *ecdsa.PrivateKey) (*SignedTransaction, error) {
	if key == nil {
		return nil, errors.New("sign: nil private key")
	}
	if u.ChainID == nil || u.ChainID.Sign() <= 0 {
		return nil, &SerializationError{Field: "chainId", Err: errors.New("must be a positive integer")}
	}
	if u.ValueWei == nil || u.ValueWei.Sign() < 0 {
		return nil, &SerializationError{Field: "value", Err: errors.New("must be a non-negative integer")}
	}

	var txData types.TxData
	switch fee := u.Fee.(type) {
	case LegacyFee:
		if err := fee.validate(); err != nil {
			return nil, err
		}
		to := u.To
		txData = &types.LegacyTx{
			Nonce:    u.Nonce,
			GasPrice: fee.GasPriceWei,
			Gas:      u.GasLimit,
			To:       &to,
			Value:    u.ValueWei,
		}
	case DynamicFee:
		if err := fee.validate(); err != nil {
			return nil, err
		}
		to := u.To
		txData = &types.DynamicFeeTx{
			ChainID:   u.ChainID,
			Nonce:     u.Nonce,
			GasTipCap: fee.MaxPriorityFeeWei,
			GasFeeCap: fee.MaxFeeWei,
			Gas:       u.GasLimit,
			To:        &to,
			Value:     u.ValueWei,
		}
	default:
		return nil, ErrInvalidFeePolicy
	}

	signer := types.LatestSignerForChainID(u.ChainID)
	tx, err := types.SignNewTx(key, signer, txData)
	if err != nil {
		return nil, &SerializationError{Field: "signature", Err: err}
	}

	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, &SerializationError{Field: "raw", Err: err}
	}

	return &SignedTransaction{
		Unsigned: *u,
		TxHash:   tx.Hash(),
		RawTx:    hexutil.Encode(raw),
	}, nil
}

// DecodeRawTransaction parses a 0x-prefixed raw transaction back into its
// typed form. Used by the broadcast path and by round-trip verification.
func DecodeRawTransaction(rawHex string) (*types.Transaction, error) {
	raw, err := hexutil.Decode(rawHex)
	if err != nil {
		return nil, err
	}
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return nil, err
	}
	return tx, nil
}

// SenderOf recovers the signing address from a decoded transaction.
func SenderOf(tx *types.Transaction, chainID *big.Int) (common.Address, error) {
	return types.Sender(types.LatestSignerForChainID(chainID), tx)
}
