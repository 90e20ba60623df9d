package address

import (
	"encoding/hex"
	"errors"
	"strings"

	"transfer-core/pkg/crypto_util"
)

// ETHGenerator 以太坊地址生成器: 公钥 → 20 字节地址 → EIP-55 校验和格式。
type ETHGenerator struct{}

func NewETHGenerator() *ETHGenerator {
	return &ETHGenerator{}
}

// PubKeyToAddress 将公钥字节 (非压缩格式, 65 bytes, 0x04...) 转换为 EIP-55 地址。
// 地址 = Keccak-256(pubkey[1:]) 的后 20 字节。
func (g *ETHGenerator) PubKeyToAddress(pubKeyBytes []byte) (string, error) {
	// 去掉前缀 0x04 (如果存在)
	if len(pubKeyBytes) == 65 && pubKeyBytes[0] == 0x04 {
		pubKeyBytes = pubKeyBytes[1:]
	}
	if len(pubKeyBytes) != 64 {
		return "", errors.New("公钥必须是 64 字节 (去前缀) 或 65 字节非压缩格式")
	}

	hash := crypto_util.Keccak256(pubKeyBytes)
	addressHex := hex.EncodeToString(hash[12:])
	return "0x" + toChecksumAddress(addressHex), nil
}

// toChecksumAddress 实现 EIP-55 混合大小写校验。
func toChecksumAddress(address string) string {
	address = strings.ToLower(address)
	hashHex := crypto_util.CalculateKeccak256([]byte(address))

	var sb strings.Builder
	for i := 0; i < len(address); i++ {
		char := address[i]
		if hexCharToInt(hashHex[i]) >= 8 {
			sb.WriteString(strings.ToUpper(string(char)))
		} else {
			sb.WriteByte(char)
		}
	}
	return sb.String()
}

func hexCharToInt(c byte) byte {
	if c >= '0' && c <= '9' {
		return c - '0'
	}
	if c >= 'a' && c <= 'f' {
		return c - 'a' + 10
	}
	return 0
}
