package hdkey

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/tyler-smith/go-bip39"

	"transfer-core/pkg/keystore"
)

// BIP-39 助记词 → BIP-32 主密钥 → BIP-44 以太坊路径派生。
// 运营方通常持有的是助记词而不是裸私钥，导入走这条路。

// DefaultDerivationPath 是以太坊账户 0 的标准 BIP-44 路径。
const DefaultDerivationPath = "m/44'/60'/0'/0/0"

var (
	ErrInvalidMnemonic = errors.New("hdkey: invalid BIP-39 mnemonic")
	ErrInvalidPath     = errors.New("hdkey: invalid derivation path")
)

// Wallet wraps a BIP-32 master key derived from a mnemonic seed.
type Wallet struct {
	master *hdkeychain.ExtendedKey
}

// GenerateMnemonic 生成新的助记词。bits: 128 → 12 词, 256 → 24 词。
func GenerateMnemonic(bits int) (string, error) {
	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", fmt.Errorf("hdkey: entropy: %w", err)
	}
	return bip39.NewMnemonic(entropy)
}

// NewFromMnemonic validates the mnemonic and builds the master key.
// passphrase is the optional BIP-39 "25th word" (usually empty).
func NewFromMnemonic(mnemonic, passphrase string) (*Wallet, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	seed := bip39.NewSeed(mnemonic, passphrase)

	// 网络参数只影响 xprv/xpub 的序列化前缀, 对 ETH 派生无意义,
	// 统一用 MainNetParams。
	master, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("hdkey: master key: %w", err)
	}
	return &Wallet{master: master}, nil
}

// DeriveAccount 按路径派生出一个以太坊账户。
// 支持 m/44'/60'/0'/0/0 或 m/44h/60h/0h/0/0 两种写法。
func (w *Wallet) DeriveAccount(path string) (*keystore.Account, error) {
	key, err := w.derive(path)
	if err != nil {
		return nil, err
	}

	var ecPriv *btcec.PrivateKey
	ecPriv, err = key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("hdkey: private key: %w", err)
	}
	return keystore.FromECDSA(ecPriv.ToECDSA())
}

func (w *Wallet) derive(path string) (*hdkeychain.ExtendedKey, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == "m" {
		return w.master, nil
	}
	path = strings.TrimPrefix(path, "m/")

	current := w.master
	for _, segment := range strings.Split(path, "/") {
		hardened := false
		if strings.HasSuffix(segment, "'") || strings.HasSuffix(segment, "h") {
			hardened = true
			segment = segment[:len(segment)-1]
		}

		val, err := strconv.ParseUint(segment, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: segment %q", ErrInvalidPath, segment)
		}
		index := uint32(val)
		if hardened {
			index += hdkeychain.HardenedKeyStart
		}

		current, err = current.Derive(index)
		if err != nil {
			return nil, fmt.Errorf("hdkey: derive index %d: %w", index, err)
		}
	}
	return current, nil
}
