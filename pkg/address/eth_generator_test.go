package address

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
)

// 用 go-ethereum 自己的推导做交叉验证。
func TestPubKeyToAddressMatchesGeth(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}

	gen := NewETHGenerator()
	got, err := gen.PubKeyToAddress(crypto.FromECDSAPub(&key.PublicKey))
	if err != nil {
		t.Fatalf("PubKeyToAddress failed: %v", err)
	}

	want := crypto.PubkeyToAddress(key.PublicKey).Hex()
	if got != want {
		t.Errorf("address mismatch: got %s, want %s", got, want)
	}
}

// EIP-55 测试向量 (出自 EIP 文档)。
func TestChecksumAddress(t *testing.T) {
	cases := []string{
		"5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
		"fb6916095ca1df60bb79ce92ce3ea74c37c5d359",
		"dbf03b407c01e7cd3cbea99509d93f8dddc8c6fb",
	}
	want := []string{
		"5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"fB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		"dbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
	}
	for i, c := range cases {
		if got := toChecksumAddress(c); got != want[i] {
			t.Errorf("toChecksumAddress(%s) = %s, want %s", c, got, want[i])
		}
	}
}

func TestPubKeyToAddressRejectsBadLength(t *testing.T) {
	if _, err := NewETHGenerator().PubKeyToAddress([]byte{0x04, 0x01}); err == nil {
		t.Error("expected error for short public key")
	}
}
