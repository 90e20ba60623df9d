package keystore

import (
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"transfer-core/pkg/address"
)

var (
	// ErrKeyGeneration: 熵源失败，Create 唯一的错误路径。
	ErrKeyGeneration = errors.New("keystore: key generation failed")
	// ErrInvalidKey: 导入的私钥长度不对或不是曲线上的合法标量。
	ErrInvalidKey = errors.New("keystore: invalid private key")
)

// Account 持有单个地址的内存密钥材料。私钥只归本包管，
// 任何其他组件不落盘、不打日志；持久化走 EncryptKey 的加密信封。
// 创建/导入后不可变，进程退出或显式 Zero 时销毁。
type Account struct {
	Address    common.Address
	PrivateKey *ecdsa.PrivateKey
}

// Create generates a fresh secp256k1 key pair from the secure random source
// and derives the address from the public key.
func Create() (*Account, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyGeneration, err)
	}
	return FromECDSA(key)
}

// Import validates and loads a raw private key given as 32-byte hex
// (with or without 0x prefix).
func Import(rawHex string) (*Account, error) {
	rawHex = strings.TrimPrefix(strings.TrimSpace(rawHex), "0x")
	raw, err := hex.DecodeString(rawHex)
	if err != nil {
		return nil, fmt.Errorf("%w: not valid hex", ErrInvalidKey)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("%w: need 32 bytes, got %d", ErrInvalidKey, len(raw))
	}
	// ToECDSA 会检查标量范围 (0 < d < N)
	key, err := crypto.ToECDSA(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return FromECDSA(key)
}

// FromECDSA wraps an existing key into an Account. The address is derived via
// our own generator and cross-checked against go-ethereum's derivation.
func FromECDSA(key *ecdsa.PrivateKey) (*Account, error) {
	addrHex, err := address.NewETHGenerator().PubKeyToAddress(crypto.FromECDSAPub(&key.PublicKey))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	addr := common.HexToAddress(addrHex)
	if addr != crypto.PubkeyToAddress(key.PublicKey) {
		return nil, fmt.Errorf("%w: address derivation mismatch", ErrInvalidKey)
	}
	return &Account{Address: addr, PrivateKey: key}, nil
}

// PrivateKeyHex renders the secret as 32-byte hex. 只给加密信封用，
// 调用方不准把结果写日志或配置。
func (a *Account) PrivateKeyHex() string {
	return hex.EncodeToString(crypto.FromECDSA(a.PrivateKey))
}

// Zero best-effort wipes the in-memory scalar. Go 的 GC 不保证擦除，
// 这是退出路径上的兜底，不是安全边界。
func (a *Account) Zero() {
	if a.PrivateKey != nil {
		a.PrivateKey.D.SetInt64(0)
		a.PrivateKey = nil
	}
}
