package keystore

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/scrypt"

	"transfer-core/pkg/crypto_util"
	"transfer-core/pkg/safe_random"
)

// 加密信封: scrypt 拉伸密码 → AES-256-GCM 加密私钥 hex。
// 私钥明文永远不落盘；文件权限 0600。

const (
	keyVersion = 1

	scryptN     = 1 << 15
	scryptR     = 8
	scryptP     = 1
	scryptDKLen = 32
)

var ErrChecksumMismatch = errors.New("keystore: file checksum mismatch")

// KeyJSON 是 keystore 文件的磁盘格式。
type KeyJSON struct {
	Id       string     `json:"id"`
	Address  string     `json:"address"`
	Version  int        `json:"version"`
	Crypto   CryptoJSON `json:"crypto"`
	Checksum string     `json:"checksum"` // blake3(ciphertext)
}

type CryptoJSON struct {
	Cipher     string       `json:"cipher"` // aes-256-gcm
	Ciphertext string       `json:"ciphertext"`
	KDF        string       `json:"kdf"` // scrypt
	KDFParams  ScryptParams `json:"kdfparams"`
}

type ScryptParams struct {
	N     int    `json:"n"`
	R     int    `json:"r"`
	P     int    `json:"p"`
	DKLen int    `json:"dklen"`
	Salt  string `json:"salt"`
}

// EncryptKey seals the account's private key under the password.
func EncryptKey(acct *Account, password string) (*KeyJSON, error) {
	salt, err := safe_random.GenerateRandomBytes(32)
	if err != nil {
		return nil, err
	}
	id, err := safe_random.GenerateRandomHexString(16)
	if err != nil {
		return nil, err
	}

	derived, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptDKLen)
	if err != nil {
		return nil, fmt.Errorf("keystore: kdf: %w", err)
	}

	ciphertext, err := crypto_util.EncryptAESGCM(derived, []byte(acct.PrivateKeyHex()))
	if err != nil {
		return nil, fmt.Errorf("keystore: encrypt: %w", err)
	}

	return &KeyJSON{
		Id:      id,
		Address: acct.Address.Hex(),
		Version: keyVersion,
		Crypto: CryptoJSON{
			Cipher:     "aes-256-gcm",
			Ciphertext: hex.EncodeToString(ciphertext),
			KDF:        "scrypt",
			KDFParams: ScryptParams{
				N:     scryptN,
				R:     scryptR,
				P:     scryptP,
				DKLen: scryptDKLen,
				Salt:  hex.EncodeToString(salt),
			},
		},
		Checksum: crypto_util.CalculateBlake3(ciphertext),
	}, nil
}

// DecryptKey opens the envelope and reconstructs the Account.
// 密码错误表现为 GCM 认证失败。
func DecryptKey(k *KeyJSON, password string) (*Account, error) {
	if k.Crypto.Cipher != "aes-256-gcm" || k.Crypto.KDF != "scrypt" {
		return nil, fmt.Errorf("keystore: unsupported cipher/kdf %q/%q", k.Crypto.Cipher, k.Crypto.KDF)
	}

	ciphertext, err := hex.DecodeString(k.Crypto.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("keystore: bad ciphertext hex: %w", err)
	}
	if k.Checksum != "" && crypto_util.CalculateBlake3(ciphertext) != k.Checksum {
		return nil, ErrChecksumMismatch
	}

	salt, err := hex.DecodeString(k.Crypto.KDFParams.Salt)
	if err != nil {
		return nil, fmt.Errorf("keystore: bad salt hex: %w", err)
	}

	p := k.Crypto.KDFParams
	derived, err := scrypt.Key([]byte(password), salt, p.N, p.R, p.P, p.DKLen)
	if err != nil {
		return nil, fmt.Errorf("keystore: kdf: %w", err)
	}

	plaintext, err := crypto_util.DecryptAESGCM(derived, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("keystore: decrypt (wrong password?): %w", err)
	}

	return Import(string(plaintext))
}

// SaveToFile 以 0600 权限写入磁盘。
func (k *KeyJSON) SaveToFile(path string) error {
	data, err := json.MarshalIndent(k, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// LoadFromFile reads a keystore file written by SaveToFile.
func LoadFromFile(path string) (*KeyJSON, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var k KeyJSON
	if err := json.Unmarshal(data, &k); err != nil {
		return nil, fmt.Errorf("keystore: parse %s: %w", path, err)
	}
	return &k, nil
}
